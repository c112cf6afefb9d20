package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nmoreau/wavecap/internal/config"
	"github.com/nmoreau/wavecap/internal/transcribe"
	"github.com/nmoreau/wavecap/internal/video"
)

// addTranscribeFlags registers the flags shared by every command that runs
// speech recognition.
func addTranscribeFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringP("model", "m", "", "Whisper model (default from config, built-in: small)")
	cmd.Flags().
		StringP("task", "t", "", "Speech task: transcribe or translate")
	cmd.Flags().
		String("provider", "", "Transcription provider: local or openai")
	cmd.Flags().
		StringP("api-key", "k", "", "OpenAI API key (or set OPENAI_API_KEY)")
	cmd.Flags().
		String("subtitle-dir", "", "Directory for generated subtitle files")
}

// addRenderFlags registers the waveform and encoding flags.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("output-dir", "", "Directory for generated videos")
	cmd.Flags().String("size", "", "Waveform canvas size, WIDTHxHEIGHT")
	cmd.Flags().String("wave-mode", "", "showwaves mode (point, line, p2p, cline)")
	cmd.Flags().String("wave-color", "", "Waveform color")
	cmd.Flags().String("pix-fmt", "", "Output pixel format")
	cmd.Flags().String("vcodec", "", "Video codec")
	cmd.Flags().String("acodec", "", "Audio codec")
	cmd.Flags().String("audio-bitrate", "", "Audio bitrate, e.g. 192k")
	cmd.Flags().String("container", "", "Output container format")
}

// flagOr returns the flag value when set, otherwise the config fallback.
func flagOr(cmd *cobra.Command, name, fallback string) string {
	value, _ := cmd.Flags().GetString(name)
	if value != "" {
		return value
	}
	return fallback
}

// outputDir resolves where videos go: --output-dir, then the persistent
// -o/--output, then config.
func outputDir(cmd *cobra.Command, cfg *config.Config) string {
	return flagOr(cmd, "output-dir",
		flagOr(cmd, "output", cfg.Defaults.OutputDir))
}

// subtitleDir resolves where subtitle files go: --subtitle-dir, then the
// persistent -o/--output, then config.
func subtitleDir(cmd *cobra.Command, cfg *config.Config) string {
	return flagOr(cmd, "subtitle-dir",
		flagOr(cmd, "output", cfg.Defaults.SubtitleDir))
}

// buildTranscribeOptions resolves model, task, language and provider from
// flags, config and environment, and creates the transcriber handle.
func buildTranscribeOptions(
	cmd *cobra.Command,
	cfg *config.Config,
) (transcribe.Options, transcribe.Provider, string, error) {
	taskStr := flagOr(cmd, "task", cfg.Defaults.Task)
	task, err := transcribe.ParseTask(taskStr)
	if err != nil {
		return transcribe.Options{}, "", "", err
	}

	language, _ := cmd.Flags().GetString("language")
	if language == "" {
		language = cfg.Defaults.Language
	}

	opts := transcribe.Options{
		Model:    flagOr(cmd, "model", cfg.Defaults.Model),
		Language: language,
		Task:     task,
	}

	providerStr := flagOr(cmd, "provider", cfg.Defaults.Provider)
	provider := transcribe.Provider(providerStr)

	var apiKey string
	if provider == transcribe.ProviderOpenAI {
		apiKey, _ = cmd.Flags().GetString("api-key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			apiKey = cfg.OpenAI.APIKey
		}
		if apiKey == "" {
			return transcribe.Options{}, "", "", fmt.Errorf(
				"OpenAI API key is required: use --api-key or set OPENAI_API_KEY",
			)
		}
	}

	return opts, provider, apiKey, nil
}

// buildRenderOptions resolves the waveform and encoding settings from flags
// over config.
func buildRenderOptions(
	cmd *cobra.Command,
	cfg *config.Config,
) (video.RenderOptions, error) {
	opts := video.RenderOptions{
		Width:        cfg.Render.Width,
		Height:       cfg.Render.Height,
		WaveMode:     flagOr(cmd, "wave-mode", cfg.Render.WaveMode),
		WaveColor:    flagOr(cmd, "wave-color", cfg.Render.WaveColor),
		PixelFormat:  flagOr(cmd, "pix-fmt", cfg.Render.PixelFormat),
		VideoCodec:   flagOr(cmd, "vcodec", cfg.Render.VideoCodec),
		AudioCodec:   flagOr(cmd, "acodec", cfg.Render.AudioCodec),
		AudioBitrate: flagOr(cmd, "audio-bitrate", cfg.Render.AudioBitrate),
		Container:    flagOr(cmd, "container", cfg.Render.Container),
	}

	if size, _ := cmd.Flags().GetString("size"); size != "" {
		width, height, err := parseSize(size)
		if err != nil {
			return video.RenderOptions{}, err
		}
		opts.Width = width
		opts.Height = height
	}

	return opts, nil
}

// parseSize parses "1280x720" style dimensions.
func parseSize(s string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q: expected WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q: bad width", s)
	}
	height, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q: bad height", s)
	}
	return width, height, nil
}
