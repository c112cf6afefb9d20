package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nmoreau/wavecap/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print an annotated sample config file",
	Long: `Config prints a sample configuration with every setting documented.
Pipe it to the default location to start from it:

  wavecap config > ~/.config/wavecap/config.toml

With --init, the sample is written to the default location directly unless
a config file already exists there.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		initialize, _ := cmd.Flags().GetBool("init")
		if !initialize {
			fmt.Fprint(cmd.OutOrStdout(), config.Sample())
			return nil
		}

		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(config.Sample()), 0o644); err != nil {
			return err
		}
		logger.Infof("Config written to %s", path)
		return nil
	},
}

func init() {
	configCmd.Flags().Bool("init", false, "Write the sample to the default location")
	rootCmd.AddCommand(configCmd)
}
