package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const RepoURL = "https://github.com/benjamonnguyen/timero"

var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "timero %s (commit %s, built %s)\n%s\n", buildVersion, buildCommit, buildDate, RepoURL)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
