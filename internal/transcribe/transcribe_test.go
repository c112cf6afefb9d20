package transcribe

import (
	"testing"
	"time"
)

func TestParseTask(t *testing.T) {
	tests := []struct {
		input   string
		want    Task
		wantErr bool
	}{
		{"transcribe", TaskTranscribe, false},
		{"translate", TaskTranslate, false},
		{"Transcribe", TaskTranscribe, false},
		{" TRANSLATE ", TaskTranslate, false},
		{"", "", true},
		{"summarize", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTask(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTask(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTask(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTask(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseWhisperResult(t *testing.T) {
	data := []byte(`{
		"text": "Hello world. How are you?",
		"language": "en",
		"segments": [
			{"id": 0, "start": 0.0, "end": 1.5, "text": " Hello world."},
			{"id": 1, "start": 1.5, "end": 3.25, "text": " How are you?"},
			{"id": 2, "start": 3.25, "end": 3.5, "text": "   "}
		]
	}`)

	result, err := parseWhisperResult(data)
	if err != nil {
		t.Fatalf("parseWhisperResult returned error: %v", err)
	}

	if len(result.Segments) != 2 {
		t.Fatalf("got %d segments, want 2 (blank segment dropped)", len(result.Segments))
	}
	if result.Segments[0].Text != "Hello world." {
		t.Errorf("segment text not trimmed: %q", result.Segments[0].Text)
	}
	if result.Segments[1].Start != 1.5 || result.Segments[1].End != 3.25 {
		t.Errorf("segment timing = %+v", result.Segments[1])
	}
	if result.Language != "en" {
		t.Errorf("language = %q, want en", result.Language)
	}
	if want := time.Duration(3.25 * float64(time.Second)); result.Duration != want {
		t.Errorf("duration = %v, want %v", result.Duration, want)
	}
}

func TestParseWhisperResultErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid JSON", `{"segments": [`},
		{"no speech", `{"text": "", "segments": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseWhisperResult([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseWhisperResultTextOnly(t *testing.T) {
	data := `{"text": "Hello.", "language": "en", "segments": []}`

	result, err := parseWhisperResult([]byte(data))
	if err != nil {
		t.Fatalf("parseWhisperResult returned error: %v", err)
	}
	if len(result.Segments) != 1 || result.Segments[0].Text != "Hello." {
		t.Errorf("segments = %+v, want single text entry", result.Segments)
	}
}

func TestParseVerboseJSON(t *testing.T) {
	tests := []struct {
		name      string
		rawJSON   string
		wantCount int
		wantErr   bool
	}{
		{
			name: "segments present",
			rawJSON: `{
				"text": "Hello world. How are you today?",
				"segments": [
					{"start": 0.0, "end": 1.5, "text": "Hello world."},
					{"start": 1.5, "end": 3.0, "text": "How are you today?"}
				],
				"language": "en",
				"duration": 3.0
			}`,
			wantCount: 2,
		},
		{
			name: "text only falls back to a single segment",
			rawJSON: `{
				"text": "No timestamps here.",
				"segments": [],
				"language": "en",
				"duration": 2.5
			}`,
			wantCount: 1,
		},
		{
			name: "null segments",
			rawJSON: `{
				"text": "Transcript only.",
				"segments": null,
				"language": "en",
				"duration": 1.0
			}`,
			wantCount: 1,
		},
		{
			name: "blank segments filtered",
			rawJSON: `{
				"text": "Hello",
				"segments": [
					{"start": 0.0, "end": 0.5, "text": "   "},
					{"start": 0.5, "end": 1.5, "text": "Hello"}
				],
				"language": "en",
				"duration": 1.5
			}`,
			wantCount: 1,
		},
		{name: "empty response", rawJSON: "", wantErr: true},
		{name: "invalid JSON", rawJSON: `{"text": "incomplete`, wantErr: true},
		{
			name:    "no segments and no text",
			rawJSON: `{"text": "", "segments": [], "language": "en", "duration": 0}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVerboseJSON(tt.rawJSON)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseVerboseJSON returned error: %v", err)
			}
			if len(result.Segments) != tt.wantCount {
				t.Errorf(
					"got %d segments, want %d",
					len(result.Segments),
					tt.wantCount,
				)
			}
		})
	}
}

func TestIsLocalModelName(t *testing.T) {
	for _, name := range []string{"tiny", "base", "Small", "medium", "large", "turbo"} {
		if !isLocalModelName(name) {
			t.Errorf("isLocalModelName(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"whisper-1", "gpt-4o-transcribe", ""} {
		if isLocalModelName(name) {
			t.Errorf("isLocalModelName(%q) = true, want false", name)
		}
	}
}
