// Package cmd wires the codebook commands: serve, query, options and version
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "./codebook.yaml"

//nolint:gochecknoglobals // Shared by every subcommand
var (
	cfgFile string
	logger  = newLogger()
)

//nolint:gochecknoglobals // Cobra commands are typically global
var rootCmd = &cobra.Command{
	Use:   "codebook",
	Short: "Explore a measure overview by data type, cohort and name",
	Long: `Codebook loads a measure overview (long name, short name, data type and
cohort per measure) and filters it by data type, cohort membership and a
case-insensitive name search. It serves an HTTP API with an embedded
explorer, or answers one-off queries from the command line.`,
	SilenceErrors: true,
}

// Execute runs the command line and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "codebook:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(applyLogLevel)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigFile, "config file; missing files fall back to defaults")
	rootCmd.PersistentFlags().String("log-level", logrus.InfoLevel.String(), "log level (debug, info, warn, error)")
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return log
}

// applyLogLevel honours --log-level; serve may still override it from the config file
func applyLogLevel() {
	raw, _ := rootCmd.PersistentFlags().GetString("log-level")

	level, err := logrus.ParseLevel(raw)
	if err != nil {
		logger.WithError(err).Warn("Unknown log level, using info")

		level = logrus.InfoLevel
	}

	logger.SetLevel(level)
}
