package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Defaults.Model != "small" {
		t.Errorf("default model = %q, want small", cfg.Defaults.Model)
	}
	if cfg.Defaults.Task != "transcribe" {
		t.Errorf("default task = %q, want transcribe", cfg.Defaults.Task)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("built-in defaults fail validation: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
[defaults]
model = "medium"
task = "translate"

[render]
width = 640
height = 360
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Defaults.Model != "medium" {
		t.Errorf("model = %q, want medium", cfg.Defaults.Model)
	}
	if cfg.Defaults.Task != "translate" {
		t.Errorf("task = %q, want translate", cfg.Defaults.Task)
	}
	if cfg.Render.Width != 640 || cfg.Render.Height != 360 {
		t.Errorf("render size = %dx%d, want 640x360", cfg.Render.Width, cfg.Render.Height)
	}
	// untouched keys keep built-in values
	if cfg.Render.VideoCodec != "libx264" {
		t.Errorf("video codec = %q, want libx264", cfg.Render.VideoCodec)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadRejectsInvalidTask(t *testing.T) {
	path := writeTempConfig(t, `
[defaults]
task = "summarize"
`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "task") {
		t.Errorf("got %v, want task validation error", err)
	}
}

func TestLoadRejectsInvalidProvider(t *testing.T) {
	path := writeTempConfig(t, `
[defaults]
provider = "gemini"
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := writeTempConfig(t, `[defaults`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestSampleParses(t *testing.T) {
	path := writeTempConfig(t, Sample())
	if _, err := Load(path); err != nil {
		t.Errorf("embedded sample config does not load: %v", err)
	}
}
