package match

import "sort"

// SkillGap is a required skill the candidate is missing, with the number of
// ranked jobs asking for it.
type SkillGap struct {
	Skill string `json:"skill"`
	Jobs  int    `json:"jobs"`
}

// Gaps tallies missing required skills over the first top ranked jobs (all of
// them when top <= 0). Names are grouped by their normalized form and reported
// as first seen. Ordered by count, then name.
func Gaps(ranked []RankedJob, top int) []SkillGap {
	if top <= 0 || top > len(ranked) {
		top = len(ranked)
	}

	counts := make(map[string]*SkillGap)
	for _, j := range ranked[:top] {
		seen := make(map[string]bool, len(j.MissingSkills))
		for _, s := range j.MissingSkills {
			key := Normalize(s)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			if g, ok := counts[key]; ok {
				g.Jobs++
				continue
			}
			counts[key] = &SkillGap{Skill: s, Jobs: 1}
		}
	}

	gaps := make([]SkillGap, 0, len(counts))
	for _, g := range counts {
		gaps = append(gaps, *g)
	}
	sort.Slice(gaps, func(a, b int) bool {
		if gaps[a].Jobs != gaps[b].Jobs {
			return gaps[a].Jobs > gaps[b].Jobs
		}
		return Normalize(gaps[a].Skill) < Normalize(gaps[b].Skill)
	})
	return gaps
}
