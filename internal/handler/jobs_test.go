package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/skillmatch-api/internal/match"
	"github.com/yourusername/skillmatch-api/internal/model"
	"github.com/yourusername/skillmatch-api/internal/service"
)

func jobRouter(jobs *fakeJobStore, matcher *fakeMatcher, parser *fakeParser, postings fakePostings) http.Handler {
	h := NewJobHandler(jobs, matcher, parser, postings)
	r := newTestRouter()
	r.GET("/jobs", h.ListJobs)
	r.POST("/jobs", h.CreateJob)
	r.POST("/jobs/parse", h.ParsePosting)
	r.GET("/jobs/:id", h.GetJob)
	r.PUT("/jobs/:id", h.UpdateJob)
	r.DELETE("/jobs/:id", h.DeleteJob)
	return r
}

func TestListJobsLowercasesSearch(t *testing.T) {
	jobs := newFakeJobStore()
	jobs.add("Backend Engineer")
	r := jobRouter(jobs, &fakeMatcher{}, nil, fakePostings{})

	w := doJSON(r, http.MethodGet, "/jobs?search=GoLang&location=remote", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "golang", jobs.lastFilter.Search)
	assert.Equal(t, "remote", jobs.lastFilter.LocationType)

	var got []model.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

func TestListJobsEmptyIsArray(t *testing.T) {
	r := jobRouter(newFakeJobStore(), &fakeMatcher{}, nil, fakePostings{})

	w := doJSON(r, http.MethodGet, "/jobs", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateJobScoresAndPersists(t *testing.T) {
	jobs := newFakeJobStore()
	matcher := &fakeMatcher{result: &match.Result{MatchScore: 85}}
	r := jobRouter(jobs, matcher, nil, fakePostings{})

	w := doJSON(r, http.MethodPost, "/jobs", `{"title":"SRE","company":"Acme","requiredSkills":["Go"]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var got model.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 85, got.MatchScore)
	assert.Equal(t, testUserID, got.UserID)
	assert.Equal(t, []string{"Go"}, got.RequiredSkills)
	require.Len(t, matcher.persisted, 1)
	assert.Equal(t, got.ID, matcher.persisted[0])
}

func TestCreateJobScoringFailureStillSaves(t *testing.T) {
	jobs := newFakeJobStore()
	matcher := &fakeMatcher{matchErr: errors.New("db down")}
	r := jobRouter(jobs, matcher, nil, fakePostings{})

	w := doJSON(r, http.MethodPost, "/jobs", `{"title":"SRE","company":"Acme"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, jobs.jobs, 1)
}

func TestCreateJobValidation(t *testing.T) {
	r := jobRouter(newFakeJobStore(), &fakeMatcher{}, nil, fakePostings{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"title":`},
		{"missing company", `{"title":"SRE"}`},
		{"bad apply url", `{"title":"SRE","company":"Acme","applyUrl":"not a url"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/jobs", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetUpdateDeleteJob(t *testing.T) {
	jobs := newFakeJobStore()
	job := jobs.add("Backend Engineer")
	matcher := &fakeMatcher{result: &match.Result{MatchScore: 40}}
	r := jobRouter(jobs, matcher, nil, fakePostings{})
	path := "/jobs/" + job.ID.String()

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/jobs/nope", "").Code)

	w := doJSON(r, http.MethodPut, path, `{"title":"Staff Engineer","company":"Acme"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Staff Engineer", jobs.jobs[job.ID].Title)
	assert.Equal(t, 40, jobs.jobs[job.ID].MatchScore)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodPut, path, `{"title":"X","company":"Y"}`).Code)
}

func TestParsePosting(t *testing.T) {
	parser := &fakeParser{parsed: &service.ParsedPosting{Title: "SRE", RequiredSkills: []string{"Go"}}}

	t.Run("requires text or url", func(t *testing.T) {
		r := jobRouter(newFakeJobStore(), &fakeMatcher{}, parser, fakePostings{})
		w := doJSON(r, http.MethodPost, "/jobs/parse", `{"text":"  "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("url fills apply url", func(t *testing.T) {
		r := jobRouter(newFakeJobStore(), &fakeMatcher{}, parser, fakePostings{text: "We need Go"})
		w := doJSON(r, http.MethodPost, "/jobs/parse", `{"url":"https://jobs.example.com/1"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, parser.lastText, "We need Go")

		var got service.ParsedPosting
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "https://jobs.example.com/1", got.ApplyURL)
		assert.Equal(t, []string{"Go"}, got.RequiredSkills)
	})

	t.Run("fetch failure falls back to text", func(t *testing.T) {
		r := jobRouter(newFakeJobStore(), &fakeMatcher{}, parser, fakePostings{err: errors.New("timeout")})
		w := doJSON(r, http.MethodPost, "/jobs/parse", `{"url":"https://jobs.example.com/1","text":"pasted body"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pasted body", parser.lastText)
	})

	t.Run("fetch failure without text", func(t *testing.T) {
		r := jobRouter(newFakeJobStore(), &fakeMatcher{}, parser, fakePostings{err: errors.New("timeout")})
		w := doJSON(r, http.MethodPost, "/jobs/parse", `{"url":"https://jobs.example.com/1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
