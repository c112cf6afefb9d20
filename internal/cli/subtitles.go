package cli

import (
	"github.com/spf13/cobra"

	ffmpegbin "github.com/nmoreau/wavecap/internal/ffmpeg"
	"github.com/nmoreau/wavecap/internal/pipeline"
	"github.com/nmoreau/wavecap/internal/transcribe"
	"github.com/nmoreau/wavecap/internal/video"
)

var subtitlesCmd = &cobra.Command{
	Use:   "subtitles <input>",
	Short: "Extract an SRT subtitle track from an audio or video file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, provider, apiKey, err := buildTranscribeOptions(cmd, cfg)
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
			Op:          pipeline.OpSubtitles,
			InputPath:   args[0],
			SubtitleDir: subtitleDir(cmd, cfg),
			Transcribe:  opts,
		}
		if err := runner.Validate(req); err != nil {
			return err
		}

		outcome, err := runner.Run(cmd.Context(), req)
		if err != nil {
			return err
		}

		logger.Infof("Subtitles written to %s", outcome.SubtitlePath)
		return nil
	},
}

func init() {
	addTranscribeFlags(subtitlesCmd)
	rootCmd.AddCommand(subtitlesCmd)
}
