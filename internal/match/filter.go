package match

import "github.com/yourusername/skillmatch-api/internal/model"

// Special status filter values.
const (
	FilterAll  = "all"
	FilterNone = "none"
)

// Filter narrows ranked jobs by application status.
//
// FilterAll returns ranked unchanged. FilterNone keeps jobs with no recorded
// application. A known application status keeps jobs whose recorded status is
// exactly that value; jobs without an application never match one. Any other
// filter string falls through to FilterAll.
func Filter(ranked []RankedJob, statuses map[string]string, filter string) []RankedJob {
	switch {
	case filter == FilterNone:
		out := make([]RankedJob, 0, len(ranked))
		for _, j := range ranked {
			if _, ok := statuses[j.ID]; !ok {
				out = append(out, j)
			}
		}
		return out
	case model.ValidStatus(filter):
		out := make([]RankedJob, 0, len(ranked))
		for _, j := range ranked {
			if s, ok := statuses[j.ID]; ok && s == filter {
				out = append(out, j)
			}
		}
		return out
	default:
		return ranked
	}
}
