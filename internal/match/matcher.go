package match

import "strings"

// IsSatisfied reports whether requirement is covered by any candidate skill.
//
// Matching is bidirectional substring containment on normalized names: the
// requirement is satisfied when a candidate skill contains it or it contains a
// candidate skill. Short names over-match ("r" satisfies "react"); scores and
// badges downstream were tuned against this rule, so it is kept as is.
func IsSatisfied(requirement string, candidates SkillSet) bool {
	req := Normalize(requirement)
	if req == "" {
		return false
	}
	for _, skill := range candidates.names {
		if strings.Contains(req, skill) || strings.Contains(skill, req) {
			return true
		}
	}
	return false
}
