package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yourusername/skillmatch-api/internal/match"
)

// jobFileEntry is one job in a --jobs file. Status is the application
// status recorded for the job, if any.
type jobFileEntry struct {
	match.Requirement
	Status string `json:"status,omitempty"`
}

func newRankCmd() *cobra.Command {
	var (
		skills   []string
		jobsPath string
		status   string
		top      int
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank a file of jobs against a skill list",
		Long: "Ranks every job in a JSON array by match score, highest first, " +
			"then narrows the list by application status (all, none, or a status).",
		Example: `  skillmatch rank --skills go,react --jobs jobs.json --status none`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := loadJobs(jobsPath)
			if err != nil {
				return err
			}

			jobs := make([]match.Requirement, 0, len(entries))
			statuses := make(map[string]string)
			for i, e := range entries {
				if e.ID == "" {
					e.ID = fmt.Sprintf("job-%d", i+1)
				}
				jobs = append(jobs, e.Requirement)
				if e.Status != "" {
					statuses[e.ID] = e.Status
				}
			}

			ranked := match.Filter(match.Rank(jobs, match.NewSkillSet(skills)), statuses, status)
			if top > 0 && len(ranked) > top {
				ranked = ranked[:top]
			}
			return writeJSON(cmd, ranked)
		},
	}

	cmd.Flags().StringSliceVarP(&skills, "skills", "s", nil, "Candidate skills, comma separated")
	cmd.Flags().StringVarP(&jobsPath, "jobs", "j", "", "Path to a JSON array of jobs (required)")
	cmd.Flags().StringVar(&status, "status", match.FilterAll, "Application status filter: all, none, or a status")
	cmd.Flags().IntVar(&top, "top", 0, "Only print the first N jobs")
	if err := cmd.MarkFlagRequired("jobs"); err != nil {
		panic(fmt.Sprintf("failed to mark jobs flag as required: %v", err))
	}

	return cmd
}

func loadJobs(path string) ([]jobFileEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs file %s: %w", path, err)
	}
	var entries []jobFileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal jobs JSON: %w", err)
	}
	return entries, nil
}
