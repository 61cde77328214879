package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/yourusername/skillmatch-api/internal/match"
	"github.com/yourusername/skillmatch-api/internal/model"
)

// ── Skill store ──────────────────────────────────────

type fakeSkillStore struct {
	mu     sync.Mutex
	skills map[uuid.UUID][]model.UserSkill
	merged [][]model.ExtractedSkill
}

func newFakeSkillStore() *fakeSkillStore {
	return &fakeSkillStore{skills: make(map[uuid.UUID][]model.UserSkill)}
}

func (f *fakeSkillStore) ListByUser(_ context.Context, userID uuid.UUID) ([]model.UserSkill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.UserSkill(nil), f.skills[userID]...), nil
}

func (f *fakeSkillStore) Merge(_ context.Context, userID uuid.UUID, source string, skills []model.ExtractedSkill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.merged = append(f.merged, skills)
	for _, s := range skills {
		f.upsert(userID, source, s)
	}
	return nil
}

func (f *fakeSkillStore) ReplaceManual(_ context.Context, userID uuid.UUID, skills []model.ExtractedSkill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.skills[userID][:0]
	for _, s := range f.skills[userID] {
		if s.Source != model.SourceManual {
			kept = append(kept, s)
		}
	}
	f.skills[userID] = kept
	for _, s := range skills {
		s.Confidence = 1
		f.upsert(userID, model.SourceManual, s)
	}
	return nil
}

func (f *fakeSkillStore) Delete(_ context.Context, id, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.skills[userID] {
		if s.ID == id {
			f.skills[userID] = append(f.skills[userID][:i], f.skills[userID][i+1:]...)
			return nil
		}
	}
	return errors.New("skill not found")
}

func (f *fakeSkillStore) upsert(userID uuid.UUID, source string, s model.ExtractedSkill) {
	key := match.Normalize(s.Name)
	for i, existing := range f.skills[userID] {
		if match.Normalize(existing.Name) == key {
			if existing.Confidence <= s.Confidence {
				f.skills[userID][i].Name = s.Name
				f.skills[userID][i].Confidence = s.Confidence
				f.skills[userID][i].Source = source
			}
			return
		}
	}
	f.skills[userID] = append(f.skills[userID], model.UserSkill{
		ID: uuid.New(), UserID: userID, Name: s.Name, Confidence: s.Confidence, Source: source,
	})
}

func (f *fakeSkillStore) set(userID uuid.UUID, names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.skills[userID] = nil
	for _, n := range names {
		f.skills[userID] = append(f.skills[userID], model.UserSkill{ID: uuid.New(), UserID: userID, Name: n, Confidence: 1})
	}
}

// ── Extractor & sources ──────────────────────────────

type fakeExtractor struct {
	skills  []model.ExtractedSkill
	err     error
	sources []string
	texts   []string
}

func (f *fakeExtractor) ExtractSkills(_ context.Context, source, text string) ([]model.ExtractedSkill, error) {
	f.sources = append(f.sources, source)
	f.texts = append(f.texts, text)
	return f.skills, f.err
}

type fakeProfileSource struct {
	text string
	err  error
}

func (f fakeProfileSource) ProfileText(context.Context, string) (string, error) { return f.text, f.err }

type fakeBlogSource struct {
	text string
	err  error
}

func (f fakeBlogSource) BlogText(context.Context, string) (string, error) { return f.text, f.err }

type fakeArchive struct {
	keys         []string
	contentTypes []string
	err          error
}

func (f *fakeArchive) Put(_ context.Context, key, contentType string, _ []byte) error {
	f.keys = append(f.keys, key)
	f.contentTypes = append(f.contentTypes, contentType)
	return f.err
}

type fakeNotifier struct {
	users []uuid.UUID
}

func (f *fakeNotifier) RequestRecompute(_ context.Context, userID uuid.UUID) error {
	f.users = append(f.users, userID)
	return nil
}

// ── Jobs, applications, matches, users ───────────────

type fakeJobRepo struct {
	mu     sync.Mutex
	jobs   map[uuid.UUID][]model.Job
	scores map[uuid.UUID]map[uuid.UUID]int
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{
		jobs:   make(map[uuid.UUID][]model.Job),
		scores: make(map[uuid.UUID]map[uuid.UUID]int),
	}
}

func (f *fakeJobRepo) add(userID uuid.UUID, title string, required, preferred []string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.jobs[userID] = append(f.jobs[userID], model.Job{
		ID: id, UserID: userID, Title: title, Company: "Acme",
		RequiredSkills: required, PreferredSkills: preferred,
	})
	return id
}

func (f *fakeJobRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Job(nil), f.jobs[userID]...), nil
}

func (f *fakeJobRepo) FindByID(_ context.Context, id, userID uuid.UUID) (*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, j := range f.jobs[userID] {
		if j.ID == id {
			job := j
			return &job, nil
		}
	}
	return nil, nil
}

func (f *fakeJobRepo) BatchUpdateMatchScores(_ context.Context, userID uuid.UUID, scores map[uuid.UUID]int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scores[userID] == nil {
		f.scores[userID] = make(map[uuid.UUID]int)
	}
	for id, s := range scores {
		f.scores[userID][id] = s
	}
	return nil
}

type fakeApplicationRepo struct {
	statuses map[uuid.UUID]map[uuid.UUID]string
}

func (f *fakeApplicationRepo) StatusByJob(_ context.Context, userID uuid.UUID) (map[uuid.UUID]string, error) {
	return f.statuses[userID], nil
}

type fakeMatchRecorder struct {
	recorded []model.JobMatch
}

func (f *fakeMatchRecorder) Record(_ context.Context, m *model.JobMatch) (*model.JobMatch, error) {
	f.recorded = append(f.recorded, *m)
	saved := *m
	saved.ID = uuid.New()
	return &saved, nil
}

type fakeUserLister struct {
	ids []uuid.UUID
}

func (f fakeUserLister) ListIDs(context.Context) ([]uuid.UUID, error) {
	return append([]uuid.UUID(nil), f.ids...), nil
}
