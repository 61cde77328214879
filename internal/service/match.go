package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/skillmatch-api/internal/match"
	"github.com/yourusername/skillmatch-api/internal/model"
)

var ErrJobNotFound = errors.New("job not found")

// SkillRepository loads a user's stored skills
type SkillRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserSkill, error)
}

// JobRepository loads jobs and stores cached match scores
type JobRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Job, error)
	FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*model.Job, error)
	BatchUpdateMatchScores(ctx context.Context, userID uuid.UUID, scores map[uuid.UUID]int) error
}

// ApplicationRepository reports application status per job
type ApplicationRepository interface {
	StatusByJob(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]string, error)
}

// MatchRecorder appends match results to history
type MatchRecorder interface {
	Record(ctx context.Context, m *model.JobMatch) (*model.JobMatch, error)
}

// UserLister enumerates every user for batch recompute
type UserLister interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// MatchServiceDeps wires a MatchService
type MatchServiceDeps struct {
	Skills       SkillRepository
	Jobs         JobRepository
	Applications ApplicationRepository
	Matches      MatchRecorder
	Users        UserLister
	Workers      int
}

// MatchService scores a user's jobs against their skills
type MatchService struct {
	skills       SkillRepository
	jobs         JobRepository
	applications ApplicationRepository
	matches      MatchRecorder
	users        UserLister
	workers      int
}

func NewMatchService(d MatchServiceDeps) *MatchService {
	return &MatchService{
		skills:       d.Skills,
		jobs:         d.Jobs,
		applications: d.Applications,
		matches:      d.Matches,
		users:        d.Users,
		workers:      d.Workers,
	}
}

// RankedJobs returns the user's jobs sorted by match score, narrowed by an
// application status filter ("all", "none", or a status).
func (s *MatchService) RankedJobs(ctx context.Context, userID uuid.UUID, statusFilter string) ([]match.RankedJob, error) {
	if statusFilter == "" {
		statusFilter = match.FilterAll
	}

	candidate, err := s.loadCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}
	ranked := match.Rank(candidate.Jobs, candidate.Skills)

	if statusFilter == match.FilterAll {
		return ranked, nil
	}

	byJob, err := s.applications.StatusByJob(ctx, userID)
	if err != nil {
		return nil, err
	}
	statuses := make(map[string]string, len(byJob))
	for id, status := range byJob {
		statuses[id.String()] = status
	}
	return match.Filter(ranked, statuses, statusFilter), nil
}

// MatchJob scores a single job. With persist, the result is appended to the
// job's match history and cached on the job.
func (s *MatchService) MatchJob(ctx context.Context, userID, jobID uuid.UUID, persist bool) (*match.Result, error) {
	job, err := s.jobs.FindByID(ctx, jobID, userID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	skills, err := s.skills.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := match.Score(job.RequiredSkills, job.PreferredSkills, match.NewSkillSet(model.SkillNames(skills)))

	if persist {
		_, err := s.matches.Record(ctx, &model.JobMatch{
			UserID:         userID,
			JobID:          jobID,
			MatchScore:     result.MatchScore,
			MatchingSkills: result.MatchingSkills,
			MissingSkills:  result.MissingSkills,
		})
		if err != nil {
			return nil, err
		}
	}
	return &result, nil
}

// SkillGaps returns the skills most often missing across the user's top jobs
func (s *MatchService) SkillGaps(ctx context.Context, userID uuid.UUID, top int) ([]match.SkillGap, error) {
	ranked, err := s.RankedJobs(ctx, userID, match.FilterAll)
	if err != nil {
		return nil, err
	}
	return match.Gaps(ranked, top), nil
}

// RecomputeUser re-ranks one user's jobs and writes the scores back
func (s *MatchService) RecomputeUser(ctx context.Context, userID uuid.UUID) (match.Ranking, error) {
	candidate, err := s.loadCandidate(ctx, userID)
	if err != nil {
		return match.Ranking{}, err
	}
	ranking := match.Ranking{UserID: candidate.UserID, Jobs: match.Rank(candidate.Jobs, candidate.Skills)}
	if err := s.storeScores(ctx, userID, ranking); err != nil {
		return match.Ranking{}, err
	}
	return ranking, nil
}

// RecomputeAll re-ranks every user's jobs on a bounded worker pool and writes
// the scores back.
func (s *MatchService) RecomputeAll(ctx context.Context) ([]match.Ranking, error) {
	start := time.Now()

	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]match.Candidate, 0, len(ids))
	for _, id := range ids {
		c, err := s.loadCandidate(ctx, id)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	rankings, err := match.RankAll(ctx, candidates, s.workers)
	if err != nil {
		return nil, err
	}

	for i, r := range rankings {
		if err := s.storeScores(ctx, ids[i], r); err != nil {
			return nil, err
		}
	}

	log.Info().
		Int("users", len(rankings)).
		Dur("elapsed", time.Since(start)).
		Msg("Match scores recomputed")

	return rankings, nil
}

func (s *MatchService) loadCandidate(ctx context.Context, userID uuid.UUID) (match.Candidate, error) {
	skills, err := s.skills.ListByUser(ctx, userID)
	if err != nil {
		return match.Candidate{}, err
	}
	jobs, err := s.jobs.ListByUser(ctx, userID)
	if err != nil {
		return match.Candidate{}, err
	}

	reqs := make([]match.Requirement, 0, len(jobs))
	for _, j := range jobs {
		reqs = append(reqs, JobRequirement(j))
	}
	return match.Candidate{
		UserID: userID.String(),
		Skills: match.NewSkillSet(model.SkillNames(skills)),
		Jobs:   reqs,
	}, nil
}

func (s *MatchService) storeScores(ctx context.Context, userID uuid.UUID, r match.Ranking) error {
	scores := make(map[uuid.UUID]int, len(r.Jobs))
	for _, j := range r.Jobs {
		id, err := uuid.Parse(j.ID)
		if err != nil {
			continue
		}
		scores[id] = j.MatchScore
	}
	return s.jobs.BatchUpdateMatchScores(ctx, userID, scores)
}

// JobRequirement converts a stored job into the matcher's input
func JobRequirement(j model.Job) match.Requirement {
	return match.Requirement{
		ID:              j.ID.String(),
		Title:           j.Title,
		Company:         j.Company,
		Location:        j.Location,
		RequiredSkills:  j.RequiredSkills,
		PreferredSkills: j.PreferredSkills,
	}
}
