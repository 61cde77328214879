package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yourusername/skillmatch-api/internal/match"
	"github.com/yourusername/skillmatch-api/internal/middleware"
	"github.com/yourusername/skillmatch-api/internal/model"
	"github.com/yourusername/skillmatch-api/internal/repository"
	"github.com/yourusername/skillmatch-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testUserID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

// newTestRouter authenticates every request as testUserID
func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextKeyFirebaseUID, "fb-test")
		c.Set(middleware.ContextKeyUserID, testUserID.String())
		c.Next()
	})
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── Jobs ─────────────────────────────────────────────

type fakeJobStore struct {
	jobs       map[uuid.UUID]*model.Job
	lastFilter repository.JobFilter
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: map[uuid.UUID]*model.Job{}}
}

func (f *fakeJobStore) add(title string) *model.Job {
	j := &model.Job{ID: uuid.New(), UserID: testUserID, Title: title, Company: "Acme"}
	f.jobs[j.ID] = j
	return j
}

func (f *fakeJobStore) List(_ context.Context, _ uuid.UUID, filter repository.JobFilter) ([]model.Job, error) {
	f.lastFilter = filter
	var out []model.Job
	for _, j := range f.jobs {
		out = append(out, *j)
	}
	return out, nil
}

func (f *fakeJobStore) FindByID(_ context.Context, id, userID uuid.UUID) (*model.Job, error) {
	j, ok := f.jobs[id]
	if !ok || j.UserID != userID {
		return nil, nil
	}
	return j, nil
}

func (f *fakeJobStore) Create(_ context.Context, j *model.Job) (*model.Job, error) {
	j.ID = uuid.New()
	f.jobs[j.ID] = j
	return j, nil
}

func (f *fakeJobStore) Update(_ context.Context, j *model.Job) (*model.Job, error) {
	if _, ok := f.jobs[j.ID]; !ok {
		return nil, nil
	}
	f.jobs[j.ID] = j
	return j, nil
}

func (f *fakeJobStore) Delete(_ context.Context, id, _ uuid.UUID) error {
	if _, ok := f.jobs[id]; !ok {
		return errors.New("job not found")
	}
	delete(f.jobs, id)
	return nil
}

// ── Matcher ──────────────────────────────────────────

type fakeMatcher struct {
	ranked     []match.RankedJob
	lastFilter string
	result     *match.Result
	matchErr   error
	persisted  []uuid.UUID
	gaps       []match.SkillGap
	lastTop    int
	recomputed int
}

func (f *fakeMatcher) RankedJobs(_ context.Context, _ uuid.UUID, statusFilter string) ([]match.RankedJob, error) {
	f.lastFilter = statusFilter
	return f.ranked, nil
}

func (f *fakeMatcher) MatchJob(_ context.Context, _ uuid.UUID, jobID uuid.UUID, persist bool) (*match.Result, error) {
	if f.matchErr != nil {
		return nil, f.matchErr
	}
	if persist {
		f.persisted = append(f.persisted, jobID)
	}
	return f.result, nil
}

func (f *fakeMatcher) SkillGaps(_ context.Context, _ uuid.UUID, top int) ([]match.SkillGap, error) {
	f.lastTop = top
	return f.gaps, nil
}

func (f *fakeMatcher) RecomputeUser(_ context.Context, userID uuid.UUID) (match.Ranking, error) {
	f.recomputed++
	return match.Ranking{UserID: userID.String(), Jobs: f.ranked}, nil
}

type fakeQueue struct {
	requested []uuid.UUID
	err       error
}

func (f *fakeQueue) RequestRecompute(_ context.Context, userID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.requested = append(f.requested, userID)
	return nil
}

type fakeHistory struct {
	lastLimit int
	rows      []model.JobMatch
}

func (f *fakeHistory) ListByJob(_ context.Context, _, _ uuid.UUID, limit int) ([]model.JobMatch, error) {
	f.lastLimit = limit
	return f.rows, nil
}

// ── Skills ───────────────────────────────────────────

type fakeImporter struct {
	skills     []model.UserSkill
	err        error
	lastSource string
	lastText   string
	lastFile   string
	lastLogin  string
	lastURL    string
	deleted    []uuid.UUID
}

func (f *fakeImporter) List(context.Context, uuid.UUID) ([]model.UserSkill, error) {
	return f.skills, f.err
}

func (f *fakeImporter) ReplaceManual(_ context.Context, _ uuid.UUID, skills []model.ExtractedSkill) ([]model.UserSkill, error) {
	out := make([]model.UserSkill, 0, len(skills))
	for _, s := range skills {
		out = append(out, model.UserSkill{Name: s.Name, Source: model.SourceManual})
	}
	return out, f.err
}

func (f *fakeImporter) Import(_ context.Context, _ uuid.UUID, source, text string) ([]model.UserSkill, error) {
	f.lastSource, f.lastText = source, text
	return f.skills, f.err
}

func (f *fakeImporter) ImportDocument(_ context.Context, _ uuid.UUID, filename, _ string, data []byte) ([]model.UserSkill, error) {
	f.lastFile, f.lastText = filename, string(data)
	return f.skills, f.err
}

func (f *fakeImporter) ImportGithub(_ context.Context, _ uuid.UUID, login string) ([]model.UserSkill, error) {
	f.lastLogin = login
	return f.skills, f.err
}

func (f *fakeImporter) ImportBlog(_ context.Context, _ uuid.UUID, url string) ([]model.UserSkill, error) {
	f.lastURL = url
	return f.skills, f.err
}

func (f *fakeImporter) Delete(_ context.Context, _, skillID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, skillID)
	return nil
}

// ── Applications ─────────────────────────────────────

type fakeApplicationStore struct {
	apps    map[uuid.UUID]*model.Application
	history []model.StatusHistory
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{apps: map[uuid.UUID]*model.Application{}}
}

func (f *fakeApplicationStore) FindByJobID(_ context.Context, _, jobID uuid.UUID) (*model.Application, error) {
	return f.apps[jobID], nil
}

func (f *fakeApplicationStore) Create(_ context.Context, a *model.Application) (*model.Application, error) {
	a.ID = uuid.New()
	f.apps[a.JobID] = a
	return a, nil
}

func (f *fakeApplicationStore) UpdateStatus(_ context.Context, id, _ uuid.UUID, newStatus, note string) (*model.Application, error) {
	for _, a := range f.apps {
		if a.ID == id {
			f.history = append(f.history, model.StatusHistory{ApplicationID: id, FromStatus: a.Status, ToStatus: newStatus, Note: note})
			a.Status = newStatus
			return a, nil
		}
	}
	return nil, errors.New("application not found")
}

func (f *fakeApplicationStore) GetHistory(context.Context, uuid.UUID) ([]model.StatusHistory, error) {
	return f.history, nil
}

// ── Users ────────────────────────────────────────────

type fakeUserStore struct {
	byUID map[string]*model.User
}

func (f *fakeUserStore) FindByFirebaseUID(_ context.Context, uid string) (*model.User, error) {
	return f.byUID[uid], nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byUID {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) Create(_ context.Context, uid, email, name string) (*model.User, error) {
	u := &model.User{ID: uuid.New(), FirebaseUID: uid, Email: email, Name: name}
	f.byUID[uid] = u
	return u, nil
}

func (f *fakeUserStore) Update(_ context.Context, id uuid.UUID, updates *model.User) (*model.User, error) {
	u, _ := f.FindByID(context.Background(), id)
	if u == nil {
		return nil, errors.New("user not found")
	}
	u.Name = updates.Name
	u.Headline = updates.Headline
	return u, nil
}

// ── Postings ─────────────────────────────────────────

type fakePostings struct {
	text string
	err  error
}

func (f fakePostings) PostingText(context.Context, string) (string, error) {
	return f.text, f.err
}

type fakeParser struct {
	lastText string
	parsed   *service.ParsedPosting
}

func (f *fakeParser) ParsePosting(_ context.Context, text string) (*service.ParsedPosting, error) {
	f.lastText = text
	p := *f.parsed
	return &p, nil
}
