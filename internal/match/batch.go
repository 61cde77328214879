package match

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Candidate is one user's skill set and the jobs to rank for them.
type Candidate struct {
	UserID string
	Skills SkillSet
	Jobs   []Requirement
}

// Ranking is the ranked job list computed for one Candidate.
type Ranking struct {
	UserID string
	Jobs   []RankedJob
}

// RankAll ranks every candidate's jobs using up to workers goroutines
// (runtime.NumCPU() when workers <= 0). Output order matches candidates.
// Candidates are independent, so they are scheduled in any order; each
// per-user list is stable-sorted exactly as Rank does. If ctx is canceled,
// no new candidates are started and ctx's error is returned.
func RankAll(ctx context.Context, candidates []Candidate, workers int) ([]Ranking, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := make([]Ranking, len(candidates))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range candidates {
		if err := gCtx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			c := candidates[i]
			out[i] = Ranking{UserID: c.UserID, Jobs: Rank(c.Jobs, c.Skills)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
