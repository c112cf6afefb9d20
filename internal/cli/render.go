package cli

import (
	"github.com/spf13/cobra"

	ffmpegbin "github.com/nmoreau/wavecap/internal/ffmpeg"
	"github.com/nmoreau/wavecap/internal/pipeline"
	"github.com/nmoreau/wavecap/internal/transcribe"
	"github.com/nmoreau/wavecap/internal/video"
)

var renderCmd = &cobra.Command{
	Use:   "render <input>",
	Short: "Render an audio or video file into a waveform video",
	Long: `Render produces a video whose picture is an amplitude waveform of
the input's audio track. With --embed, subtitles are burned into the
picture: either an existing track passed via --subtitles, or one freshly
transcribed from the input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		embed, _ := cmd.Flags().GetBool("embed")
		subtitlePath, _ := cmd.Flags().GetString("subtitles")
		if subtitlePath != "" {
			embed = true
		}

		renderOpts, err := buildRenderOptions(cmd, cfg)
		if err != nil {
			return err
		}

		req := pipeline.Request{
			Op:           pipeline.OpRender,
			InputPath:    args[0],
			OutputDir:    outputDir(cmd, cfg),
			SubtitleDir:  flagOr(cmd, "subtitle-dir", cfg.Defaults.SubtitleDir),
			SubtitlePath: subtitlePath,
			Render:       renderOpts,
		}

		// Transcription only happens when subtitles must be produced.
		var transcriber transcribe.Transcriber
		if embed {
			req.Op = pipeline.OpRenderEmbed
			if subtitlePath == "" {
				opts, provider, apiKey, err := buildTranscribeOptions(cmd, cfg)
				if err != nil {
					return err
				}
				req.Transcribe = opts

				transcriber, err = transcribe.Factory(
					cmd.Context(), provider, apiKey, opts,
				)
				if err != nil {
					return err
				}
			}
		}

		if _, err := ffmpegbin.Ensure(); err != nil {
			return err
		}

		runner := pipeline.NewRunner(
			logger, transcriber, video.NewRenderer(verbose),
		)
		if err := runner.Validate(req); err != nil {
			return err
		}

		outcome, err := runner.Run(cmd.Context(), req)
		if err != nil {
			return err
		}

		if outcome.SubtitlePath != "" {
			logger.Infof("Subtitles written to %s", outcome.SubtitlePath)
		}
		logger.Infof("Video written to %s", outcome.VideoPath)
		return nil
	},
}

func init() {
	addTranscribeFlags(renderCmd)
	addRenderFlags(renderCmd)
	renderCmd.Flags().
		Bool("embed", false, "Burn subtitles into the rendered video")
	renderCmd.Flags().
		String("subtitles", "", "Existing SRT file to burn in (implies --embed)")
	rootCmd.AddCommand(renderCmd)
}
