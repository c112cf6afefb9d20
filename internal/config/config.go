package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Defaults supplies fallback values for the most common flags.
type Defaults struct {
	Model       string `toml:"model"`
	Task        string `toml:"task"`
	Provider    string `toml:"provider"`
	Language    string `toml:"language"`
	OutputDir   string `toml:"output_dir"`
	SubtitleDir string `toml:"subtitle_dir"`
}

// Render carries video encoding defaults.
type Render struct {
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	WaveMode     string `toml:"wave_mode"`
	WaveColor    string `toml:"wave_color"`
	PixelFormat  string `toml:"pixel_format"`
	VideoCodec   string `toml:"video_codec"`
	AudioCodec   string `toml:"audio_codec"`
	AudioBitrate string `toml:"audio_bitrate"`
	Container    string `toml:"container"`
}

// OpenAI holds credentials for the OpenAI transcription and translation
// providers. The OPENAI_API_KEY environment variable takes precedence.
type OpenAI struct {
	APIKey string `toml:"api_key"`
}

// Anthropic holds credentials for the Anthropic translation provider.
type Anthropic struct {
	APIKey string `toml:"api_key"`
}

// FFmpeg pins explicit binary locations, bypassing $PATH lookup and the
// bundled-download fallback.
type FFmpeg struct {
	FFmpegPath  string `toml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path"`
}

// Config is the optional on-disk configuration. Flags override config
// values; config values override built-in defaults.
type Config struct {
	Defaults  Defaults  `toml:"defaults"`
	Render    Render    `toml:"render"`
	OpenAI    OpenAI    `toml:"openai"`
	Anthropic Anthropic `toml:"anthropic"`
	FFmpeg    FFmpeg    `toml:"ffmpeg"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Defaults: Defaults{
			Model:       "small",
			Task:        "transcribe",
			Provider:    "local",
			OutputDir:   "./assets",
			SubtitleDir: "./assets/subtitles",
		},
		Render: Render{
			Width:        1280,
			Height:       720,
			WaveMode:     "cline",
			WaveColor:    "white",
			PixelFormat:  "yuv420p",
			VideoCodec:   "libx264",
			AudioCodec:   "aac",
			AudioBitrate: "192k",
			Container:    "mp4",
		},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve config directory: %w", err)
	}
	return filepath.Join(configDir, "wavecap", "config.toml"), nil
}

// Load reads the config at path, or the default location when path is
// empty. A missing file is not an error; built-in defaults are returned.
// An explicitly named file that does not exist is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Defaults.Task {
	case "transcribe", "translate":
	default:
		return fmt.Errorf("defaults.task must be transcribe or translate, got %q", c.Defaults.Task)
	}

	switch c.Defaults.Provider {
	case "local", "openai":
	default:
		return fmt.Errorf("defaults.provider must be local or openai, got %q", c.Defaults.Provider)
	}

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf(
			"render size must be positive, got %dx%d",
			c.Render.Width,
			c.Render.Height,
		)
	}

	return nil
}

// Sample returns an annotated example configuration file.
func Sample() string {
	return sampleConfig
}
