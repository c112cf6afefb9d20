package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nmoreau/wavecap/internal/subtitle"
	"github.com/nmoreau/wavecap/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate <input.srt>",
	Short: "Translate an SRT subtitle file with an LLM",
	Long: `Translate reads an existing SRT file, translates its entries in
batches through the chosen provider and writes a new SRT file with the
original timing. With --overlay, the translation is appended below the
original text so both languages show at once.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath := args[0]

		targetLanguage, _ := cmd.Flags().GetString("target-language")
		if targetLanguage == "" {
			return fmt.Errorf("target language is required: use --target-language")
		}

		sourceLanguage, _ := cmd.Flags().GetString("language")
		providerStr, _ := cmd.Flags().GetString("provider")
		provider := translate.Provider(providerStr)
		model, _ := cmd.Flags().GetString("model")
		batchSize, _ := cmd.Flags().GetInt("batch-size")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		overlay, _ := cmd.Flags().GetBool("overlay")

		apiKey, err := translateAPIKey(cmd, provider)
		if err != nil {
			return err
		}

		track, err := subtitle.OpenSRT(inputPath)
		if err != nil {
			return err
		}
		if len(track.Segments) == 0 {
			return fmt.Errorf("no subtitle entries in %s", inputPath)
		}

		opts := translate.Options{
			SourceLanguage: sourceLanguage,
			TargetLanguage: targetLanguage,
			Model:          model,
			BatchSize:      batchSize,
			Concurrency:    concurrency,
		}
		translator, err := translate.Factory(
			cmd.Context(), provider, apiKey, opts,
		)
		if err != nil {
			return err
		}

		items := make([]translate.Item, len(track.Segments))
		for i, seg := range track.Segments {
			items[i] = translate.Item{Index: i, Text: seg.Text}
		}

		logger.Infof(
			"Translating %d entries to %s via %s",
			len(items), targetLanguage, provider,
		)

		results, err := translator.Translate(cmd.Context(), items)
		if err != nil {
			return err
		}

		segments := make([]subtitle.Segment, len(track.Segments))
		copy(segments, track.Segments)
		for _, res := range results {
			if res.Index < 0 || res.Index >= len(segments) {
				return fmt.Errorf("translation result index %d out of range", res.Index)
			}
			if overlay {
				segments[res.Index].Text = segments[res.Index].Text + "\n" + res.Text
			} else {
				segments[res.Index].Text = res.Text
			}
		}

		outputPath, _ := cmd.Flags().GetString("output")
		if outputPath == "" {
			outputPath = translatedPath(inputPath, targetLanguage)
		}

		if err := subtitle.WriteSRTFile(outputPath, segments); err != nil {
			return err
		}

		logger.Infof("Translated subtitles written to %s", outputPath)
		return nil
	},
}

// translateAPIKey resolves the API key for the translation provider from
// flag, environment, then config.
func translateAPIKey(
	cmd *cobra.Command,
	provider translate.Provider,
) (string, error) {
	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey != "" {
		return apiKey, nil
	}

	switch provider {
	case translate.ProviderOpenAI:
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			return key, nil
		}
		if cfg.OpenAI.APIKey != "" {
			return cfg.OpenAI.APIKey, nil
		}
		return "", fmt.Errorf(
			"OpenAI API key is required: use --api-key or set OPENAI_API_KEY",
		)
	case translate.ProviderAnthropic:
		if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
			return key, nil
		}
		if cfg.Anthropic.APIKey != "" {
			return cfg.Anthropic.APIKey, nil
		}
		return "", fmt.Errorf(
			"Anthropic API key is required: use --api-key or set ANTHROPIC_API_KEY",
		)
	default:
		return "", fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

// translatedPath derives "talk.es.srt" from "talk.srt" and "es".
func translatedPath(inputPath, targetLanguage string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	lang := strings.ToLower(strings.ReplaceAll(targetLanguage, " ", "_"))
	return fmt.Sprintf("%s.%s%s", base, lang, ext)
}

func init() {
	translateCmd.Flags().
		StringP("target-language", "T", "", "Target language (required)")
	translateCmd.Flags().
		String("provider", "openai", "Translation provider: openai or anthropic")
	translateCmd.Flags().
		StringP("model", "m", "", "Model override for the provider")
	translateCmd.Flags().
		StringP("api-key", "k", "", "Provider API key (or set the provider's env var)")
	translateCmd.Flags().
		Int("batch-size", 0, "Entries per API request")
	translateCmd.Flags().
		Int("concurrency", 0, "Parallel batch requests")
	translateCmd.Flags().
		Bool("overlay", false, "Keep the original text and append the translation")
	rootCmd.AddCommand(translateCmd)
}
