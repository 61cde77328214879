package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/skillmatch-api/internal/match"
	"github.com/yourusername/skillmatch-api/internal/service"
)

func matchRouter(matcher *fakeMatcher, history *fakeHistory, queue RecomputeQueue) http.Handler {
	h := NewMatchHandler(matcher, history, queue)
	r := newTestRouter()
	r.GET("/jobs/ranked", h.Ranked)
	r.GET("/jobs/:id/match", h.MatchJob)
	r.GET("/jobs/:id/match/history", h.History)
	r.GET("/skills/gaps", h.Gaps)
	r.POST("/matches/recompute", h.Recompute)
	return r
}

func rankedFixture() []match.RankedJob {
	return []match.RankedJob{
		{
			Requirement: match.Requirement{ID: "a", Title: "Backend", RequiredSkills: []string{"Go"}},
			Result:      match.Result{MatchScore: 100, MatchingSkills: []string{"Go"}, MissingSkills: []string{}},
		},
	}
}

func TestRankedDefaultsToAll(t *testing.T) {
	matcher := &fakeMatcher{ranked: rankedFixture()}
	r := matchRouter(matcher, &fakeHistory{}, nil)

	w := doJSON(r, http.MethodGet, "/jobs/ranked", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, match.FilterAll, matcher.lastFilter)
	assert.JSONEq(t, `[{"id":"a","title":"Backend","company":"","requiredSkills":["Go"],"preferredSkills":null,
		"matchScore":100,"matchingSkills":["Go"],"missingSkills":[]}]`, w.Body.String())

	doJSON(r, http.MethodGet, "/jobs/ranked?status=none", "")
	assert.Equal(t, match.FilterNone, matcher.lastFilter)
}

func TestRankedEmptyIsArray(t *testing.T) {
	r := matchRouter(&fakeMatcher{}, &fakeHistory{}, nil)

	w := doJSON(r, http.MethodGet, "/jobs/ranked?status=offer", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestMatchJob(t *testing.T) {
	jobID := uuid.New()
	matcher := &fakeMatcher{result: &match.Result{MatchScore: 70, MatchingSkills: []string{"Go"}, MissingSkills: []string{"Rust"}}}
	r := matchRouter(matcher, &fakeHistory{}, nil)

	w := doJSON(r, http.MethodGet, "/jobs/"+jobID.String()+"/match", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"matchScore":70,"matchingSkills":["Go"],"missingSkills":["Rust"]}`, w.Body.String())
	assert.Empty(t, matcher.persisted)

	doJSON(r, http.MethodGet, "/jobs/"+jobID.String()+"/match?persist=true", "")
	assert.Equal(t, []uuid.UUID{jobID}, matcher.persisted)
}

func TestMatchJobNotFound(t *testing.T) {
	r := matchRouter(&fakeMatcher{matchErr: service.ErrJobNotFound}, &fakeHistory{}, nil)

	w := doJSON(r, http.MethodGet, "/jobs/"+uuid.NewString()+"/match", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/jobs/bad/match", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMatchHistory(t *testing.T) {
	history := &fakeHistory{}
	r := matchRouter(&fakeMatcher{}, history, nil)

	w := doJSON(r, http.MethodGet, "/jobs/"+uuid.NewString()+"/match/history?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, history.lastLimit)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGaps(t *testing.T) {
	matcher := &fakeMatcher{gaps: []match.SkillGap{{Skill: "Rust", Jobs: 3}}}
	r := matchRouter(matcher, &fakeHistory{}, nil)

	w := doJSON(r, http.MethodGet, "/skills/gaps", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultGapJobs, matcher.lastTop)
	assert.JSONEq(t, `[{"skill":"Rust","jobs":3}]`, w.Body.String())

	doJSON(r, http.MethodGet, "/skills/gaps?top=3", "")
	assert.Equal(t, 3, matcher.lastTop)

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/skills/gaps?top=-1", "").Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/skills/gaps?top=many", "").Code)
}

func TestRecompute(t *testing.T) {
	t.Run("queued", func(t *testing.T) {
		queue := &fakeQueue{}
		matcher := &fakeMatcher{}
		r := matchRouter(matcher, &fakeHistory{}, queue)

		w := doJSON(r, http.MethodPost, "/matches/recompute", "")
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.JSONEq(t, `{"queued":true}`, w.Body.String())
		assert.Equal(t, []uuid.UUID{testUserID}, queue.requested)
		assert.Zero(t, matcher.recomputed)
	})

	t.Run("broker failure", func(t *testing.T) {
		r := matchRouter(&fakeMatcher{}, &fakeHistory{}, &fakeQueue{err: errors.New("channel closed")})

		w := doJSON(r, http.MethodPost, "/matches/recompute", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("inline without broker", func(t *testing.T) {
		matcher := &fakeMatcher{ranked: rankedFixture()}
		r := matchRouter(matcher, &fakeHistory{}, nil)

		w := doJSON(r, http.MethodPost, "/matches/recompute", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, matcher.recomputed)
		assert.Contains(t, w.Body.String(), `"queued":false`)
		assert.Contains(t, w.Body.String(), `"matchScore":100`)
	})
}
