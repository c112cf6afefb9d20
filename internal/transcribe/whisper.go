package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/nmoreau/wavecap/internal/media"
	"github.com/nmoreau/wavecap/internal/subtitle"
)

// LocalTranscriber runs the whisper command-line tool and parses its JSON
// result file. The model is loaded by the tool on every invocation, which is
// why callers create one transcriber per process run and reuse it.
type LocalTranscriber struct {
	binPath string
	options Options
}

// whisperResult is the JSON document whisper writes with --output_format json.
type whisperResult struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// NewLocalTranscriber resolves the whisper executable. WAVECAP_WHISPER_PATH
// overrides the $PATH lookup.
func NewLocalTranscriber(opts Options) (*LocalTranscriber, error) {
	binPath := os.Getenv("WAVECAP_WHISPER_PATH")
	if binPath == "" {
		found, err := exec.LookPath("whisper")
		if err != nil {
			return nil, fmt.Errorf(
				"whisper executable not found: install openai-whisper or set WAVECAP_WHISPER_PATH",
			)
		}
		binPath = found
	}

	if opts.Model == "" {
		opts.Model = "small"
	}
	if opts.Task == "" {
		opts.Task = TaskTranscribe
	}

	return &LocalTranscriber{binPath: binPath, options: opts}, nil
}

// Transcribe runs whisper against mediaPath and returns the timed segments.
// Whisper accepts both audio and video inputs; it fails if the file has no
// decodable audio track, and that failure is surfaced verbatim.
func (t *LocalTranscriber) Transcribe(
	ctx context.Context,
	mediaPath string,
) (*Result, error) {
	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("media file not found: %s", mediaPath)
	}

	outDir, err := os.MkdirTemp("", "wavecap-whisper-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	args := []string{
		mediaPath,
		"--model", t.options.Model,
		"--task", string(t.options.Task),
		"--output_format", "json",
		"--output_dir", outDir,
		"--verbose", "False",
	}
	if t.options.Language != "" {
		args = append(args, "--language", t.options.Language)
	}

	cmd := exec.CommandContext(ctx, t.binPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("whisper failed: %s: %w", detail, err)
		}
		return nil, fmt.Errorf("whisper failed: %w", err)
	}

	resultPath := filepath.Join(outDir, media.BaseName(mediaPath)+".json")
	data, err := os.ReadFile(resultPath)
	if err != nil {
		return nil, fmt.Errorf("whisper produced no result file: %w", err)
	}

	return parseWhisperResult(data)
}

func parseWhisperResult(data []byte) (*Result, error) {
	var parsed whisperResult
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse whisper output: %w", err)
	}

	segments := make([]subtitle.Segment, 0, len(parsed.Segments))
	var last float64
	for _, seg := range parsed.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, subtitle.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
		if seg.End > last {
			last = seg.End
		}
	}

	if len(segments) == 0 {
		text := strings.TrimSpace(parsed.Text)
		if text == "" {
			return nil, fmt.Errorf("whisper returned no speech segments")
		}
		// No per-segment timing in the result, keep the text as one entry.
		segments = append(segments, subtitle.Segment{Start: 0, End: last, Text: text})
	}

	return &Result{
		Segments: segments,
		Language: parsed.Language,
		Duration: time.Duration(last * float64(time.Second)),
	}, nil
}
