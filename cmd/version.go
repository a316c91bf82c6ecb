package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/ethpandaops/codebook/cmd.Release=..."
//
//nolint:gochecknoglobals // Build metadata
var (
	Release   = "dev"
	GitCommit = "none"
)

//nolint:gochecknoglobals // Cobra commands are typically global
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func versionString() string {
	return fmt.Sprintf("codebook %s (commit %s, %s, %s/%s)",
		Release, GitCommit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
