package subtitle

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidSegment is returned when a segment has malformed timing. A
// malformed segment is fatal to the whole serialization: silently skipping
// it would desynchronize index numbering for every later entry.
var ErrInvalidSegment = errors.New("invalid segment")

// separatorReplacement substitutes the literal "-->" inside cue text, since
// that token is the timecode separator and must never appear in free text.
const separatorReplacement = "→"

// WriteSRT serializes segments to w as a SubRip document. Entries are
// numbered 1..N in input order. All segments are validated before the first
// byte is written, so a validation failure never leaves a partially numbered
// document behind; I/O errors from w propagate unchanged and may leave the
// document truncated. Callers needing atomicity should use WriteSRTFile.
func WriteSRT(w io.Writer, segments []Segment) error {
	for i, seg := range segments {
		if err := validateSegment(seg); err != nil {
			return fmt.Errorf("segment %d: %w", i+1, err)
		}
	}

	for i, seg := range segments {
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			i+1,
			FormatTimecode(seg.Start),
			FormatTimecode(seg.End),
			sanitizeText(seg.Text),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// WriteSRTFile serializes segments to path, creating parent directories as
// needed. The document is written to a temporary file and renamed into place
// on full success, so a failure mid-serialization never leaves a truncated
// .srt behind.
func WriteSRTFile(path string, segments []Segment) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create subtitle directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".srt-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := WriteSRT(tmp, segments); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}

	return nil
}

// FormatTimecode renders seconds as an SRT timecode HH:MM:SS,mmm. Every
// unit is truncated, not rounded, and hours are not wrapped past 99.
func FormatTimecode(seconds float64) string {
	whole := math.Floor(seconds)
	hours := int(whole) / 3600
	minutes := (int(whole) % 3600) / 60
	secs := int(whole) % 60
	millis := int(math.Floor((seconds - whole) * 1000))

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

func sanitizeText(text string) string {
	text = strings.TrimSpace(text)
	return strings.ReplaceAll(text, "-->", separatorReplacement)
}

func validateSegment(seg Segment) error {
	if math.IsNaN(seg.Start) || math.IsNaN(seg.End) {
		return fmt.Errorf("%w: timing is not a number", ErrInvalidSegment)
	}
	if seg.Start < 0 {
		return fmt.Errorf(
			"%w: start %.3f is negative",
			ErrInvalidSegment,
			seg.Start,
		)
	}
	if seg.Duration() < 0 {
		return fmt.Errorf(
			"%w: end %.3f precedes start %.3f",
			ErrInvalidSegment,
			seg.End,
			seg.Start,
		)
	}
	return nil
}
