package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/ethpandaops/codebook/pkg/engine"
	"github.com/ethpandaops/codebook/pkg/filter"
	"github.com/ethpandaops/codebook/pkg/records"
	"github.com/ethpandaops/codebook/pkg/render"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var (
	querySource   string
	queryDataType string
	queryCohorts  []string
	querySearch   string
	queryTemplate string
	queryJSON     bool
	queryWarnings bool
)

//nolint:gochecknoglobals // Cobra commands are typically global
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Filter the measure overview",
	Long: `Loads the measure overview and prints the measures matching the given
data type, cohorts and search text. Cohorts may be repeated or comma separated;
"all" disables the cohort filter and "overlapping" keeps measures shared by
more than one cohort.`,
	Example: `  codebook query --source data/measure-overview.json --data-type questionnaire --cohort A,B
  codebook query --source https://example.org/overview.csv --search sleep --template '{{ range .Records }}{{ .ShortName }}{{ "\n" }}{{ end }}'`,
	PersistentPreRunE: quietLogs,
	RunE:              runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVar(&querySource, "source", "", "dataset file path, http(s) URL or s3://bucket/key (overrides config)")
	queryCmd.Flags().StringVar(&queryDataType, "data-type", records.All, "data type to keep, or all")
	queryCmd.Flags().StringSliceVar(&queryCohorts, "cohort", nil, "cohorts to keep (A, B, C, D, all, overlapping)")
	queryCmd.Flags().StringVar(&querySearch, "search", "", "case-insensitive text matched against long and short names")
	queryCmd.Flags().StringVar(&queryTemplate, "template", "", "Go template for output (Sprig functions available)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the result as JSON")
	queryCmd.Flags().BoolVar(&queryWarnings, "warnings", false, "also print malformed records found while loading")
}

// quietLogs lowers the default log level so command output stays readable
func quietLogs(cmd *cobra.Command, _ []string) error {
	if !cmd.Flags().Changed("log-level") {
		logger.SetLevel(logrus.WarnLevel)
	}

	return nil
}

func runQuery(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	config, err := loadCLIConfig(cfgFile)
	if err != nil {
		return err
	}

	if err := applySourceFlag(&config.Source, querySource); err != nil {
		return err
	}

	cohorts, err := filter.ParseCohorts(queryCohorts...)
	if err != nil {
		return err
	}

	eng, err := loadEngine(cmd.Context(), config, logger)
	if err != nil {
		return err
	}

	eng.SetDataType(queryDataType)
	eng.SetCohorts(cohorts.Values()...)
	eng.SetSearch(querySearch)

	out := cmd.OutOrStdout()

	if queryJSON {
		result, err := eng.OnFilterChanged()
		if err != nil {
			return err
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(map[string]interface{}{
			"records": result,
			"total":   len(result),
		})
	}

	sink, err := newQuerySink(cmd)
	if err != nil {
		return err
	}

	options, err := eng.Options()
	if err != nil {
		return err
	}

	if err := sink.RenderOptions(options); err != nil {
		return err
	}

	eng.Attach(sink)

	if _, err := eng.OnFilterChanged(); err != nil {
		return err
	}

	if queryWarnings {
		printWarnings(cmd, eng)
	}

	return nil
}

func newQuerySink(cmd *cobra.Command) (engine.Sink, error) {
	if queryTemplate != "" {
		return render.NewTemplateSink(cmd.OutOrStdout(), queryTemplate)
	}

	sink := render.NewTableSink(cmd.OutOrStdout())
	sink.Quiet = true

	return sink, nil
}

func printWarnings(cmd *cobra.Command, eng *engine.Engine) {
	warnings := eng.Warnings()
	if len(warnings) == 0 {
		return
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "\n%d malformed records:\n", len(warnings))

	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", w.Error())
	}
}
