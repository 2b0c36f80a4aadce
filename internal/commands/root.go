// Package commands wires the boxaudit CLI. The commands are thin input
// adapters: they decode or generate an event batch, hand it to the service
// pipeline, and print what comes back.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-dai/box-access-audit/internal/config"
	"github.com/naka-dai/box-access-audit/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "boxaudit",
	Short: "Box access audit batch",
	Long: `boxaudit audits file-access activity exported from Box, flagging
usage patterns indicative of data exfiltration: excessive volume, excessive
unique-file touch, off-hours access and short-burst spikes.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults + BOXAUDIT_ env)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger = logging.New(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
}
