package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/nmoreau/wavecap/internal/ffmpeg"
)

// RenderOptions control the waveform visualization and the encoding of the
// produced video.
type RenderOptions struct {
	Width        int    // waveform canvas width
	Height       int    // waveform canvas height
	WaveMode     string // showwaves mode (point, line, p2p, cline)
	WaveColor    string
	PixelFormat  string
	VideoCodec   string
	AudioCodec   string
	AudioBitrate string
	Container    string
}

// DefaultRenderOptions returns the encoding parameters used when the caller
// does not override them.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Width:        1280,
		Height:       720,
		WaveMode:     "cline",
		WaveColor:    "white",
		PixelFormat:  "yuv420p",
		VideoCodec:   "libx264",
		AudioCodec:   "aac",
		AudioBitrate: "192k",
		Container:    "mp4",
	}
}

// withDefaults fills unset fields so a partially populated options value
// still renders something sensible.
func (o RenderOptions) withDefaults() RenderOptions {
	def := DefaultRenderOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.WaveMode == "" {
		o.WaveMode = def.WaveMode
	}
	if o.WaveColor == "" {
		o.WaveColor = def.WaveColor
	}
	if o.PixelFormat == "" {
		o.PixelFormat = def.PixelFormat
	}
	if o.VideoCodec == "" {
		o.VideoCodec = def.VideoCodec
	}
	if o.AudioCodec == "" {
		o.AudioCodec = def.AudioCodec
	}
	if o.AudioBitrate == "" {
		o.AudioBitrate = def.AudioBitrate
	}
	if o.Container == "" {
		o.Container = def.Container
	}
	return o
}

func (o RenderOptions) waveformKwargs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"s":      fmt.Sprintf("%dx%d", o.Width, o.Height),
		"mode":   o.WaveMode,
		"colors": o.WaveColor,
	}
}

func (o RenderOptions) outputKwargs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"pix_fmt": o.PixelFormat,
		"vcodec":  o.VideoCodec,
		"acodec":  o.AudioCodec,
		"b:a":     o.AudioBitrate,
		"format":  o.Container,
		"strict":  "experimental",
	}
}

// ExtractAudioOptions holds options for audio extraction.
type ExtractAudioOptions struct {
	Format     string // wav, mp3, aac, flac
	SampleRate int
	Channels   int
	Bitrate    string // for lossy formats, e.g. "128k"
}

// DefaultExtractAudioOptions returns settings suited to speech recognition.
func DefaultExtractAudioOptions() ExtractAudioOptions {
	return ExtractAudioOptions{
		Format:     "mp3",
		SampleRate: 16000,
		Channels:   1,
		Bitrate:    "64k",
	}
}

// Renderer performs media transforms through ffmpeg.
type Renderer struct {
	verbose bool
}

func NewRenderer(verbose bool) *Renderer {
	return &Renderer{verbose: verbose}
}

// RenderWaveform converts the audio of inputPath into a video whose picture
// is an amplitude waveform. When subtitlePath is non-empty the subtitle
// track is burned into the picture. The output combines the rendered video
// with the original audio.
func (r *Renderer) RenderWaveform(
	ctx context.Context,
	inputPath, outputPath, subtitlePath string,
	opts RenderOptions,
) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if subtitlePath != "" {
		if _, err := os.Stat(subtitlePath); os.IsNotExist(err) {
			return fmt.Errorf("subtitle file not found: %s", subtitlePath)
		}
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	opts = opts.withDefaults()
	input := ffmpeg.Input(inputPath)

	wave := input.Audio().
		Filter("showwaves", ffmpeg.Args{}, opts.waveformKwargs()).
		Filter("setpts", ffmpeg.Args{"PTS-STARTPTS"})

	if subtitlePath != "" {
		wave = wave.Filter("subtitles", ffmpeg.Args{subtitlePath})
	}

	out := ffmpeg.Output(
		[]*ffmpeg.Stream{wave, input.Audio()},
		outputPath,
		opts.outputKwargs(),
	)

	if !r.verbose {
		out = out.GlobalArgs("-hide_banner", "-loglevel", "error")
	}

	if err := out.OverWriteOutput().SetFfmpegPath(ffmpegPath).Run(); err != nil {
		return fmt.Errorf("ffmpeg render failed: %w", err)
	}

	return nil
}

// ExtractAudio pulls the audio track out of a media file, typically to feed
// a transcription service that only accepts audio input.
func (r *Renderer) ExtractAudio(
	ctx context.Context,
	inputPath, outputPath string,
	opts ExtractAudioOptions,
) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	kwargs := ffmpeg.KwArgs{
		"vn": "",
		"ar": opts.SampleRate,
		"ac": opts.Channels,
		"y":  "",
	}

	switch opts.Format {
	case "mp3":
		kwargs["acodec"] = "libmp3lame"
		if opts.Bitrate != "" {
			kwargs["b:a"] = opts.Bitrate
		}
	case "aac":
		kwargs["acodec"] = "aac"
		if opts.Bitrate != "" {
			kwargs["b:a"] = opts.Bitrate
		}
	case "flac":
		kwargs["acodec"] = "flac"
	default:
		kwargs["acodec"] = "pcm_s16le"
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	out := ffmpeg.Input(inputPath).Output(outputPath, kwargs)
	if !r.verbose {
		out = out.GlobalArgs("-hide_banner", "-loglevel", "error")
	}

	if err := out.OverWriteOutput().SetFfmpegPath(ffmpegPath).Run(); err != nil {
		return fmt.Errorf("ffmpeg extraction failed: %w", err)
	}

	return nil
}
