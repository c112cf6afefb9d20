package subtitle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatTimecode(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{1.9999, "00:00:01,999"}, // truncated, not rounded
		{3.25, "00:00:03,250"},
		{3600, "01:00:00,000"},
		{3661.5, "01:01:01,500"},
		{7200.5, "02:00:00,500"},
		{359999.999, "99:59:59,999"},
		{360000, "100:00:00,000"}, // hours are not wrapped past 99
	}

	for _, tt := range tests {
		got := FormatTimecode(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatTimecode(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatTimecodeMonotonic(t *testing.T) {
	// For end >= start >= 0 the formatted end must sort lexicographically
	// at or after the formatted start.
	pairs := [][2]float64{
		{0, 0},
		{0, 1.5},
		{1.4999, 1.5},
		{59.999, 60},
		{3599.9, 3600},
		{3661.5, 3661.5},
		{7199.0, 7200.5},
	}

	for _, p := range pairs {
		start := FormatTimecode(p[0])
		end := FormatTimecode(p[1])
		if end < start {
			t.Errorf(
				"FormatTimecode(%v)=%q sorts before FormatTimecode(%v)=%q",
				p[1], end, p[0], start,
			)
		}
	}
}

func TestSegmentDuration(t *testing.T) {
	if d := (Segment{Start: 1.5, End: 3.25}).Duration(); d != 1.75 {
		t.Errorf("Duration() = %v, want 1.75", d)
	}
	if d := (Segment{Start: 2, End: 1}).Duration(); d >= 0 {
		t.Errorf("Duration() = %v, want negative for reversed timing", d)
	}
}

func TestWriteSRT(t *testing.T) {
	segments := []Segment{
		{Start: 0.0, End: 1.5, Text: "Hello"},
		{Start: 1.5, End: 3.25, Text: "World --> End"},
	}

	var sb strings.Builder
	if err := WriteSRT(&sb, segments); err != nil {
		t.Fatalf("WriteSRT returned error: %v", err)
	}

	want := "1\n" +
		"00:00:00,000 --> 00:00:01,500\n" +
		"Hello\n" +
		"\n" +
		"2\n" +
		"00:00:01,500 --> 00:00:03,250\n" +
		"World → End\n" +
		"\n"

	if sb.String() != want {
		t.Errorf("WriteSRT output:\n%q\nwant:\n%q", sb.String(), want)
	}
}

func TestWriteSRTIndexContiguity(t *testing.T) {
	var segments []Segment
	for i := 0; i < 25; i++ {
		segments = append(segments, Segment{
			Start: float64(i),
			End:   float64(i) + 0.5,
			Text:  fmt.Sprintf("line %d", i),
		})
	}

	var sb strings.Builder
	if err := WriteSRT(&sb, segments); err != nil {
		t.Fatalf("WriteSRT returned error: %v", err)
	}

	blocks := strings.Split(strings.TrimSuffix(sb.String(), "\n\n"), "\n\n")
	if len(blocks) != len(segments) {
		t.Fatalf("got %d entries, want %d", len(blocks), len(segments))
	}
	for i, block := range blocks {
		firstLine := strings.SplitN(block, "\n", 2)[0]
		want := fmt.Sprintf("%d", i+1)
		if firstLine != want {
			t.Errorf("entry %d has index line %q, want %q", i, firstLine, want)
		}
	}
}

func TestWriteSRTSeparatorSafety(t *testing.T) {
	segments := []Segment{
		{Start: 0, End: 1, Text: "a --> b --> c"},
		{Start: 1, End: 2, Text: "  --> leading  "},
	}

	var sb strings.Builder
	if err := WriteSRT(&sb, segments); err != nil {
		t.Fatalf("WriteSRT returned error: %v", err)
	}

	for _, line := range strings.Split(sb.String(), "\n") {
		if strings.Contains(line, "-->") && !timecodeRegex.MatchString(line) {
			t.Errorf("non-timecode line contains separator: %q", line)
		}
	}
}

func TestWriteSRTTrimsWhitespace(t *testing.T) {
	var sb strings.Builder
	err := WriteSRT(&sb, []Segment{{Start: 0, End: 1, Text: "  padded  "}})
	if err != nil {
		t.Fatalf("WriteSRT returned error: %v", err)
	}
	if !strings.Contains(sb.String(), "\npadded\n") {
		t.Errorf("text was not trimmed: %q", sb.String())
	}
}

func TestWriteSRTRejectsInvalidSegments(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
	}{
		{
			name: "end before start",
			segments: []Segment{
				{Start: 0, End: 1, Text: "ok"},
				{Start: 5.0, End: 2.0, Text: "reversed"},
			},
		},
		{
			name: "negative start",
			segments: []Segment{
				{Start: -0.5, End: 1, Text: "negative"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			err := WriteSRT(&sb, tt.segments)
			if !errors.Is(err, ErrInvalidSegment) {
				t.Fatalf("got error %v, want ErrInvalidSegment", err)
			}
			// Validation happens before serialization: an invalid input
			// must not leave a partial document the caller could mistake
			// for valid output.
			if sb.Len() != 0 {
				t.Errorf("partial output written: %q", sb.String())
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("sink closed")
}

func TestWriteSRTPropagatesSinkErrors(t *testing.T) {
	err := WriteSRT(failingWriter{}, []Segment{{Start: 0, End: 1, Text: "x"}})
	if err == nil || !strings.Contains(err.Error(), "sink closed") {
		t.Errorf("got %v, want sink error propagated unchanged", err)
	}
}

func TestWriteSRTFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "track.srt")

	segments := []Segment{{Start: 0, End: 1.5, Text: "Hello"}}
	if err := WriteSRTFile(path, segments); err != nil {
		t.Fatalf("WriteSRTFile returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:01,500\nHello\n\n"
	if string(data) != want {
		t.Errorf("file contents %q, want %q", string(data), want)
	}
}

func TestWriteSRTFileLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.srt")

	err := WriteSRTFile(path, []Segment{{Start: 2, End: 1, Text: "bad"}})
	if !errors.Is(err, ErrInvalidSegment) {
		t.Fatalf("got error %v, want ErrInvalidSegment", err)
	}

	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("output file exists after failed write")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("temp files left behind: %v", entries)
	}
}
