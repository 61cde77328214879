package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Deterministic(t *testing.T) {
	set := NewSkillSet([]string{"Go", "Postgres", "Kubernetes"})
	required := []string{"Go", "Kafka", "PostgreSQL"}
	preferred := []string{"Kubernetes", "Terraform"}

	first := Score(required, preferred, set)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(required, preferred, set))
	}
}

func TestScore_NoRequirements(t *testing.T) {
	res := Score([]string{}, []string{}, NewSkillSet([]string{"Go"}))

	assert.Equal(t, 100, res.MatchScore)
	assert.Empty(t, res.MatchingSkills)
	assert.Empty(t, res.MissingSkills)
}

func TestScore_NilListsActAsEmpty(t *testing.T) {
	res := Score(nil, nil, SkillSet{})

	assert.Equal(t, 100, res.MatchScore)
	assert.NotNil(t, res.MatchingSkills)
	assert.NotNil(t, res.MissingSkills)
	assert.Empty(t, res.MatchingSkills)
	assert.Empty(t, res.MissingSkills)
}

func TestScore_FullRequiredCoverage(t *testing.T) {
	res := Score([]string{"Go", "SQL"}, nil, NewSkillSet([]string{"go", "sql"}))

	assert.Equal(t, 100, res.MatchScore)
	assert.Equal(t, []string{"Go", "SQL"}, res.MatchingSkills)
	assert.Empty(t, res.MissingSkills)
}

func TestScore_EmptyCandidateSet(t *testing.T) {
	res := Score([]string{"Python"}, []string{}, NewSkillSet(nil))

	// 0*0.7 + 100*0.3: an empty preferred list is fully covered
	assert.Equal(t, 30, res.MatchScore)
	assert.Equal(t, []string{"Python"}, res.MissingSkills)
	assert.Empty(t, res.MatchingSkills)
}

func TestScore_EmptyCandidateSetWithPreferred(t *testing.T) {
	res := Score([]string{"Python"}, []string{"Docker"}, NewSkillSet(nil))

	assert.Equal(t, 0, res.MatchScore)
	assert.Equal(t, []string{"Python"}, res.MissingSkills)
}

func TestScore_Weighting(t *testing.T) {
	res := Score([]string{"A", "B"}, []string{"C", "D"}, NewSkillSet([]string{"A"}))

	assert.Equal(t, 35, res.MatchScore)
	assert.Equal(t, []string{"A"}, res.MatchingSkills)
	assert.Equal(t, []string{"B"}, res.MissingSkills)
}

func TestScore_OnlyPreferredListed(t *testing.T) {
	res := Score(nil, []string{"Docker", "AWS"}, NewSkillSet([]string{"docker"}))

	// 100*0.7 + 50*0.3
	assert.Equal(t, 85, res.MatchScore)
	assert.Equal(t, []string{"Docker"}, res.MatchingSkills)
	assert.Empty(t, res.MissingSkills)
}

func TestScore_RoundsHalfUp(t *testing.T) {
	// 50*0.7 + 25*0.3 = 42.5
	res := Score(
		[]string{"Go", "Rust"},
		[]string{"Docker", "AWS", "GCP", "Azure"},
		NewSkillSet([]string{"go", "docker"}),
	)
	assert.Equal(t, 43, res.MatchScore)
}

func TestScore_RoundsToNearest(t *testing.T) {
	set := NewSkillSet([]string{"a1", "a2"})

	// 33.33*0.7 + 30 = 53.33
	assert.Equal(t, 53, Score([]string{"a1", "x", "y"}, nil, set).MatchScore)
	// 66.67*0.7 + 30 = 76.67
	assert.Equal(t, 77, Score([]string{"a1", "a2", "y"}, nil, set).MatchScore)
}

func TestScore_DuplicatesAcrossListsAreKept(t *testing.T) {
	res := Score([]string{"React"}, []string{"React"}, NewSkillSet([]string{"react"}))

	assert.Equal(t, 100, res.MatchScore)
	assert.Equal(t, []string{"React", "React"}, res.MatchingSkills)
}

func TestScore_MissingPreferredNotReported(t *testing.T) {
	res := Score([]string{"Go"}, []string{"Haskell"}, NewSkillSet([]string{"go"}))

	assert.Equal(t, 70, res.MatchScore)
	assert.Empty(t, res.MissingSkills)
}

func TestScore_EndToEnd(t *testing.T) {
	set := NewSkillSet([]string{"React", "TypeScript", "SQL"})
	res := Score([]string{"React", "GraphQL"}, []string{"TypeScript", "Docker"}, set)

	assert.Equal(t, 50, res.MatchScore)
	assert.Equal(t, []string{"React", "TypeScript"}, res.MatchingSkills)
	assert.Equal(t, []string{"GraphQL"}, res.MissingSkills)
}

func TestScore_KeepsOriginalSpelling(t *testing.T) {
	res := Score([]string{"  PostgreSQL "}, nil, NewSkillSet([]string{"postgres"}))

	assert.Equal(t, []string{"  PostgreSQL "}, res.MatchingSkills)
}
