package cli

import (
	"github.com/spf13/cobra"

	"github.com/nmoreau/wavecap/internal/config"
	ffmpegbin "github.com/nmoreau/wavecap/internal/ffmpeg"
	"github.com/nmoreau/wavecap/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "wavecap",
	Short: "Waveform videos and AI subtitles for audio and video files",
	Long: `Wavecap chains a Whisper speech model and ffmpeg to extract SRT
subtitles from audio or video files and to render audio into a video with
an amplitude-waveform visualization, optionally with subtitles burned in.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		ffmpegbin.SetPaths(cfg.FFmpeg.FFmpegPath, cfg.FFmpeg.FFprobePath)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default ~/.config/wavecap/config.toml)")
	rootCmd.PersistentFlags().
		StringP("output", "o", "", "Output location: directory for media commands, file for translate")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr)")
}
