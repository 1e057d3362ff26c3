package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version    = "dev"
	configFile string
	cfg        *Config
)

var rootCmd = &cobra.Command{
	Use:   "osm2sidewalk",
	Short: "Sidewalk and crossing network builder",
	Long:  "Reads OSM road ways, derives offset sidewalks, crossing stripes and junction connectors, merges per-category networks and writes them to files or spatial databases.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := Load(configFile)
		if err != nil {
			return errors.Wrap(err, "load config")
		}
		cfg = c

		if err := InitLogger(cfg.Log); err != nil {
			return errors.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to YAML config file (default ./config.yaml)")
	rootCmd.AddCommand(buildCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
