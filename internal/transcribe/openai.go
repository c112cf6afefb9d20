package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nmoreau/wavecap/internal/subtitle"
)

// OpenAITranscriber implements Transcriber using the OpenAI audio API.
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
}

// whisperSegment is one segment of a verbose_json response.
type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// whisperVerboseResponse is the verbose_json response body.
type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" || isLocalModelName(model) {
		model = "whisper-1"
	}
	if opts.Task == "" {
		opts.Task = TaskTranscribe
	}

	return &OpenAITranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// isLocalModelName reports whether name is a local whisper model size rather
// than an API model identifier, so the default can be substituted.
func isLocalModelName(name string) bool {
	switch strings.ToLower(name) {
	case "tiny", "base", "small", "medium", "large", "turbo":
		return true
	}
	return false
}

// Transcribe sends the audio file to the configured endpoint. The
// translation endpoint is used for TaskTranslate; it always produces
// English. The API only accepts audio, so callers extract the audio track
// from video inputs first.
func (t *OpenAITranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	if t.options.Task == TaskTranslate {
		return t.translate(ctx, file)
	}
	return t.transcribe(ctx, file)
}

func (t *OpenAITranscriber) translate(
	ctx context.Context,
	file *os.File,
) (*Result, error) {
	params := openai.AudioTranslationNewParams{
		File:           file,
		Model:          openai.AudioModel(t.model),
		ResponseFormat: openai.AudioTranslationNewParamsResponseFormatVerboseJSON,
	}

	resp, err := t.client.Audio.Translations.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	result, err := parseVerboseJSON(resp.RawJSON())
	if err != nil {
		return nil, err
	}
	result.Language = "en"
	return result, nil
}

func (t *OpenAITranscriber) transcribe(
	ctx context.Context,
	file *os.File,
) (*Result, error) {
	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	}
	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	return parseVerboseJSON(resp.RawJSON())
}

func parseVerboseJSON(rawJSON string) (*Result, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var resp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	duration := time.Duration(resp.Duration * float64(time.Second))

	if len(resp.Segments) == 0 {
		text := strings.TrimSpace(resp.Text)
		if text == "" {
			return nil, fmt.Errorf("no segments or text in response")
		}
		// No timestamps available: emit a single segment spanning the file.
		return &Result{
			Segments: []subtitle.Segment{{
				Start: 0,
				End:   resp.Duration,
				Text:  text,
			}},
			Language: resp.Language,
			Duration: duration,
		}, nil
	}

	segments := make([]subtitle.Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, subtitle.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
	}

	return &Result{
		Segments: segments,
		Language: resp.Language,
		Duration: duration,
	}, nil
}
