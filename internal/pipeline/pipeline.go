package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nmoreau/wavecap/internal/logging"
	"github.com/nmoreau/wavecap/internal/media"
	"github.com/nmoreau/wavecap/internal/subtitle"
	"github.com/nmoreau/wavecap/internal/transcribe"
	"github.com/nmoreau/wavecap/internal/video"
)

// Op is the requested operation kind. Modeling the mode as a tagged value
// with one exhaustive dispatch keeps illegal flag combinations out of the
// orchestration layer.
type Op string

const (
	// OpSubtitles extracts an SRT subtitle track from the input.
	OpSubtitles Op = "subtitles"
	// OpRender produces a waveform video from the input audio.
	OpRender Op = "render"
	// OpRenderEmbed produces a waveform video with subtitles burned in,
	// transcribing first unless an existing track is supplied.
	OpRenderEmbed Op = "render-embed"
	// OpCombine extracts subtitles and renders a plain waveform video.
	OpCombine Op = "combine"
)

// Request describes one invocation of the tool.
type Request struct {
	Op           Op
	InputPath    string
	OutputDir    string
	SubtitleDir  string
	SubtitlePath string // existing SRT to burn in, OpRenderEmbed only
	Transcribe   transcribe.Options
	Render       video.RenderOptions
}

// Outcome reports what a successful run produced.
type Outcome struct {
	SubtitlePath string
	VideoPath    string
}

// MediaRenderer is the media-transform collaborator.
type MediaRenderer interface {
	RenderWaveform(
		ctx context.Context,
		inputPath, outputPath, subtitlePath string,
		opts video.RenderOptions,
	) error
	ExtractAudio(
		ctx context.Context,
		inputPath, outputPath string,
		opts video.ExtractAudioOptions,
	) error
}

// Runner executes requests. The transcriber handle is created once by the
// caller and reused across operations so the speech model is not set up
// twice within a single run.
type Runner struct {
	logger      *logging.Logger
	transcriber transcribe.Transcriber
	renderer    MediaRenderer
	probe       func(ctx context.Context, path string) (*media.ProbeInfo, error)
}

// NewRunner builds a Runner. transcriber may be nil for OpRender and for
// OpRenderEmbed with an existing subtitle track.
func NewRunner(
	logger *logging.Logger,
	transcriber transcribe.Transcriber,
	renderer MediaRenderer,
) *Runner {
	return &Runner{
		logger:      logger,
		transcriber: transcriber,
		renderer:    renderer,
		probe:       media.Probe,
	}
}

// Validate checks the request shape before any external tool is touched.
func (r *Runner) Validate(req Request) error {
	if req.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	if _, err := os.Stat(req.InputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", req.InputPath)
	}
	if !media.IsMediaFile(req.InputPath) {
		return fmt.Errorf("unsupported media file: %s", req.InputPath)
	}

	switch req.Op {
	case OpSubtitles, OpCombine:
		if r.transcriber == nil {
			return fmt.Errorf("operation %s requires a transcriber", req.Op)
		}
	case OpRenderEmbed:
		if req.SubtitlePath == "" && r.transcriber == nil {
			return fmt.Errorf(
				"operation %s requires a transcriber or an existing subtitle file",
				req.Op,
			)
		}
	case OpRender:
	default:
		return fmt.Errorf("unsupported operation: %q", req.Op)
	}

	return nil
}

// Run executes the request. Every operation processes audio, so an input
// without an audio track fails up front rather than half-succeeding.
func (r *Runner) Run(ctx context.Context, req Request) (*Outcome, error) {
	if err := r.Validate(req); err != nil {
		return nil, err
	}

	info, err := r.probe(ctx, req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to probe %s: %w", req.InputPath, err)
	}
	if !info.HasAudio() {
		return nil, fmt.Errorf(
			"%s contains no audio track",
			req.InputPath,
		)
	}
	r.logger.Debugw("Probed input",
		"input", req.InputPath,
		"duration", info.Duration(),
	)

	switch req.Op {
	case OpSubtitles:
		srtPath, err := r.extractSubtitles(ctx, req)
		if err != nil {
			return nil, err
		}
		return &Outcome{SubtitlePath: srtPath}, nil

	case OpRender:
		videoPath, err := r.renderVideo(ctx, req, "")
		if err != nil {
			return nil, err
		}
		return &Outcome{VideoPath: videoPath}, nil

	case OpRenderEmbed:
		srtPath := req.SubtitlePath
		if srtPath != "" {
			// Parse up front so a malformed track fails before the
			// expensive render starts.
			if _, err := subtitle.OpenSRT(srtPath); err != nil {
				return nil, err
			}
		} else {
			srtPath, err = r.extractSubtitles(ctx, req)
			if err != nil {
				return nil, fmt.Errorf(
					"cannot embed subtitles: %w",
					err,
				)
			}
		}
		videoPath, err := r.renderVideo(ctx, req, srtPath)
		if err != nil {
			return nil, err
		}
		return &Outcome{SubtitlePath: srtPath, VideoPath: videoPath}, nil

	case OpCombine:
		srtPath, err := r.extractSubtitles(ctx, req)
		if err != nil {
			return nil, err
		}
		videoPath, err := r.renderVideo(ctx, req, "")
		if err != nil {
			return nil, err
		}
		return &Outcome{SubtitlePath: srtPath, VideoPath: videoPath}, nil

	default:
		return nil, fmt.Errorf("unsupported operation: %q", req.Op)
	}
}

// extractSubtitles transcribes the input and writes the SRT track.
func (r *Runner) extractSubtitles(
	ctx context.Context,
	req Request,
) (string, error) {
	mediaPath, cleanup, err := r.prepareTranscriptionInput(ctx, req)
	if err != nil {
		return "", err
	}
	defer cleanup()

	r.logger.Infow("Transcribing",
		"input", mediaPath,
		"model", req.Transcribe.Model,
		"task", string(req.Transcribe.Task),
	)

	result, err := r.transcriber.Transcribe(ctx, mediaPath)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	r.logger.Infow("Transcription complete",
		"segments", len(result.Segments),
		"language", result.Language,
	)

	srtPath := subtitleOutputPath(req)
	if err := subtitle.WriteSRTFile(srtPath, result.Segments); err != nil {
		return "", err
	}

	r.logger.Infow("Subtitles written", "path", srtPath)
	return srtPath, nil
}

// prepareTranscriptionInput extracts the audio track into a temp file when
// the backend only accepts audio; local whisper decodes video itself.
func (r *Runner) prepareTranscriptionInput(
	ctx context.Context,
	req Request,
) (string, func(), error) {
	noop := func() {}

	if _, ok := r.transcriber.(*transcribe.OpenAITranscriber); !ok {
		return req.InputPath, noop, nil
	}
	if !media.IsVideoFile(req.InputPath) {
		return req.InputPath, noop, nil
	}

	tempDir, err := os.MkdirTemp("", "wavecap-*")
	if err != nil {
		return "", noop, fmt.Errorf("failed to create temp directory: %w", err)
	}
	cleanup := func() { os.RemoveAll(tempDir) }

	audioPath := filepath.Join(tempDir, "audio.mp3")
	opts := video.DefaultExtractAudioOptions()
	if err := r.renderer.ExtractAudio(ctx, req.InputPath, audioPath, opts); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("failed to extract audio: %w", err)
	}

	return audioPath, cleanup, nil
}

func (r *Runner) renderVideo(
	ctx context.Context,
	req Request,
	subtitlePath string,
) (string, error) {
	outputPath := videoOutputPath(req, subtitlePath != "")

	r.logger.Infow("Rendering waveform video",
		"input", req.InputPath,
		"output", outputPath,
		"subtitles", subtitlePath,
	)

	err := r.renderer.RenderWaveform(
		ctx,
		req.InputPath,
		outputPath,
		subtitlePath,
		req.Render,
	)
	if err != nil {
		return "", err
	}

	r.logger.Infow("Video written", "path", outputPath)
	return outputPath, nil
}

func subtitleOutputPath(req Request) string {
	dir := req.SubtitleDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, media.BaseName(req.InputPath)+".srt")
}

func videoOutputPath(req Request, subtitled bool) string {
	dir := req.OutputDir
	if dir == "" {
		dir = "."
	}
	container := req.Render.Container
	if container == "" {
		container = "mp4"
	}
	name := media.BaseName(req.InputPath)
	if subtitled {
		name += "_subtitled"
	}
	return filepath.Join(dir, name+"."+container)
}
