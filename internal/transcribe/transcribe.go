package transcribe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nmoreau/wavecap/internal/subtitle"
)

// Task selects what the speech model does with the audio.
type Task string

const (
	// TaskTranscribe produces text in the spoken language.
	TaskTranscribe Task = "transcribe"
	// TaskTranslate produces English text regardless of the spoken language.
	TaskTranslate Task = "translate"
)

// ParseTask validates a user-supplied task name.
func ParseTask(s string) (Task, error) {
	switch Task(strings.ToLower(strings.TrimSpace(s))) {
	case TaskTranscribe:
		return TaskTranscribe, nil
	case TaskTranslate:
		return TaskTranslate, nil
	default:
		return "", fmt.Errorf(
			"unsupported task %q: use transcribe or translate",
			s,
		)
	}
}

// Options configure a transcription run.
type Options struct {
	Model    string
	Language string // source language code, empty for auto-detect
	Task     Task
}

// Result is the output of a transcription.
type Result struct {
	Segments []subtitle.Segment
	Language string
	Duration time.Duration
}

// Transcriber converts a media file into timed transcript segments.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string) (*Result, error)
}

// Provider identifies a transcription backend.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderOpenAI Provider = "openai"
)

// Factory creates a Transcriber for the given provider. The returned handle
// owns any expensive resources (loaded model, API client) and is meant to be
// created once per process run and threaded through explicitly.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderLocal:
		return NewLocalTranscriber(opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
