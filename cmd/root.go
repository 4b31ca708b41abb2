// Package cmd holds the farmer command line.
package cmd

import (
	"fmt"
	"os"

	"farmer/config"
	"farmer/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "farmer",
	Short: "Farm-produce shop backend",
	Long: `farmer serves the shop catalog, takes orders and runs the shed,
the authenticated area where the farm manages products and delivery prices.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML configuration file")
	rootCmd.AddCommand(serveCmd, initDBCmd, injectSampleCmd, notifyWorkerCmd)
}

func loadConfig() (*config.Config, *logrus.Entry, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New("farmer", cfg.Log.Level, cfg.Log.Format), nil
}
