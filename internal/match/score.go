package match

import "math"

const (
	requiredWeight  = 0.7
	preferredWeight = 0.3
)

// Result is the outcome of scoring one job against a candidate skill set.
type Result struct {
	MatchScore     int      `json:"matchScore"`
	MatchingSkills []string `json:"matchingSkills"`
	MissingSkills  []string `json:"missingSkills"`
}

// Score computes the weighted match of required and preferred skill lists.
//
// Required skills weigh 0.7 and preferred 0.3. An empty (or nil) list counts as
// fully satisfied, so a job with no listed skills scores 100. MatchingSkills
// holds matched required skills followed by matched preferred skills, as they
// were written in the job; a name listed in both appears twice. MissingSkills
// only ever lists required skills.
func Score(required, preferred []string, candidates SkillSet) Result {
	matchingReq, missingReq := partition(required, candidates)
	matchingPref, _ := partition(preferred, candidates)

	reqScore := coverage(len(matchingReq), len(required))
	prefScore := coverage(len(matchingPref), len(preferred))

	matching := make([]string, 0, len(matchingReq)+len(matchingPref))
	matching = append(matching, matchingReq...)
	matching = append(matching, matchingPref...)

	return Result{
		MatchScore:     roundHalfUp(reqScore*requiredWeight + prefScore*preferredWeight),
		MatchingSkills: matching,
		MissingSkills:  missingReq,
	}
}

func partition(skills []string, candidates SkillSet) (matched, missing []string) {
	matched = make([]string, 0, len(skills))
	missing = make([]string, 0, len(skills))
	for _, s := range skills {
		if IsSatisfied(s, candidates) {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}
	return matched, missing
}

// coverage is the matched percentage, 100 when there is nothing to match.
func coverage(matched, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(matched) / float64(total) * 100
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
