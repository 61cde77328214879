// Package main provides the skillmatch CLI for scoring and ranking jobs offline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "skillmatch",
		Short:         "Score and rank jobs against a skill list",
		Long:          "skillmatch runs the SkillMatch scoring engine on local input and prints the results as JSON.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newScoreCmd(), newRankCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
