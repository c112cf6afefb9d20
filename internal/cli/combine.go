package cli

import (
	"github.com/spf13/cobra"

	ffmpegbin "github.com/nmoreau/wavecap/internal/ffmpeg"
	"github.com/nmoreau/wavecap/internal/pipeline"
	"github.com/nmoreau/wavecap/internal/transcribe"
	"github.com/nmoreau/wavecap/internal/video"
)

var combineCmd = &cobra.Command{
	Use:   "combine <input>",
	Short: "Extract subtitles and render a waveform video in one pass",
	Long: `Combine runs both halves of the tool: it transcribes the input to
an SRT file and renders a plain waveform video. The subtitles stay in a
separate file rather than being burned into the picture.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, provider, apiKey, err := buildTranscribeOptions(cmd, cfg)
		if err != nil {
			return err
		}

		renderOpts, err := buildRenderOptions(cmd, cfg)
		if err != nil {
			return err
		}

		if _, err := ffmpegbin.Ensure(); err != nil {
			return err
		}

		transcriber, err := transcribe.Factory(
			cmd.Context(), provider, apiKey, opts,
		)
		if err != nil {
			return err
		}

		runner := pipeline.NewRunner(
			logger, transcriber, video.NewRenderer(verbose),
		)

		req := pipeline.Request{
			Op:          pipeline.OpCombine,
			InputPath:   args[0],
			OutputDir:   outputDir(cmd, cfg),
			SubtitleDir: flagOr(cmd, "subtitle-dir", cfg.Defaults.SubtitleDir),
			Transcribe:  opts,
			Render:      renderOpts,
		}
		if err := runner.Validate(req); err != nil {
			return err
		}

		outcome, err := runner.Run(cmd.Context(), req)
		if err != nil {
			return err
		}

		logger.Infof("Subtitles written to %s", outcome.SubtitlePath)
		logger.Infof("Video written to %s", outcome.VideoPath)
		return nil
	},
}

func init() {
	addTranscribeFlags(combineCmd)
	addRenderFlags(combineCmd)
	rootCmd.AddCommand(combineCmd)
}
