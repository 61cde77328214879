package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yourusername/skillmatch-api/internal/match"
)

func newScoreCmd() *cobra.Command {
	var skills, required, preferred []string

	cmd := &cobra.Command{
		Use:     "score",
		Short:   "Score one job's requirements against a skill list",
		Example: `  skillmatch score --skills go,postgres --required go,kubernetes --preferred terraform`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result := match.Score(required, preferred, match.NewSkillSet(skills))
			return writeJSON(cmd, result)
		},
	}

	cmd.Flags().StringSliceVarP(&skills, "skills", "s", nil, "Candidate skills, comma separated")
	cmd.Flags().StringSliceVarP(&required, "required", "r", nil, "Required job skills, comma separated")
	cmd.Flags().StringSliceVarP(&preferred, "preferred", "p", nil, "Preferred job skills, comma separated")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
