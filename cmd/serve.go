package cmd

import (
	"github.com/ethpandaops/codebook/pkg/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra commands are typically global
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the codebook API and explorer",
	Long: `Loads the configured measure overview once and serves the REST API,
the embedded explorer, metrics and health endpoints until interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	config, err := loadCLIConfig(cfgFile)
	if err != nil {
		return err
	}

	// The config file sets the level unless --log-level was given
	if !cmd.Flags().Changed("log-level") {
		level, err := logrus.ParseLevel(config.LoggingLevel)
		if err != nil {
			return err
		}

		logger.SetLevel(level)
	}

	logger.WithField("config", cfgFile).Info("Configuration loaded")

	srv, err := server.NewServer(cmd.Context(), logger, config)
	if err != nil {
		return err
	}

	return srv.Start(cmd.Context())
}
