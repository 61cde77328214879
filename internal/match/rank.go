package match

import "sort"

// Requirement is the skill-bearing part of a job posting.
type Requirement struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location,omitempty"`
	RequiredSkills  []string `json:"requiredSkills"`
	PreferredSkills []string `json:"preferredSkills"`
}

// RankedJob is a Requirement with its match result attached.
type RankedJob struct {
	Requirement
	Result
}

// Rank scores every job and orders them by MatchScore, highest first.
// Jobs with equal scores keep their input order.
func Rank(jobs []Requirement, candidates SkillSet) []RankedJob {
	ranked := make([]RankedJob, len(jobs))
	for i, j := range jobs {
		ranked[i] = RankedJob{
			Requirement: j,
			Result:      Score(j.RequiredSkills, j.PreferredSkills, candidates),
		}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].MatchScore > ranked[b].MatchScore
	})
	return ranked
}
