package cmd

import (
	"encoding/json"

	"github.com/ethpandaops/codebook/pkg/render"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var (
	optionsSource string
	optionsJSON   bool
)

//nolint:gochecknoglobals // Cobra commands are typically global
var optionsCmd = &cobra.Command{
	Use:               "options",
	Short:             "List the data type and cohort options",
	Long:              `Loads the measure overview and prints the selectable data types and cohorts.`,
	PersistentPreRunE: quietLogs,
	RunE:              runOptions,
}

func init() {
	rootCmd.AddCommand(optionsCmd)
	optionsCmd.Flags().StringVar(&optionsSource, "source", "", "dataset file path, http(s) URL or s3://bucket/key (overrides config)")
	optionsCmd.Flags().BoolVar(&optionsJSON, "json", false, "print the options as JSON")
}

func runOptions(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	config, err := loadCLIConfig(cfgFile)
	if err != nil {
		return err
	}

	if err := applySourceFlag(&config.Source, optionsSource); err != nil {
		return err
	}

	eng, err := loadEngine(cmd.Context(), config, logger)
	if err != nil {
		return err
	}

	options, err := eng.Options()
	if err != nil {
		return err
	}

	if optionsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(options)
	}

	return render.NewTableSink(cmd.OutOrStdout()).RenderOptions(options)
}
