package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSatisfied(t *testing.T) {
	tests := []struct {
		name        string
		requirement string
		candidates  []string
		want        bool
	}{
		{"exact case-insensitive", "React", []string{"react"}, true},
		{"candidate inside requirement", "JavaScript Developer", []string{"javascript"}, true},
		{"requirement inside candidate", "java", []string{"JavaScript"}, true},
		{"no overlap", "Python", []string{"Go", "Rust"}, false},
		{"punctuation is significant", "Node.js", []string{"nodejs"}, false},
		{"js is not a substring of javascript", "js", []string{"javascript"}, false},
		{"short token over-matches", "React", []string{"R"}, true},
		{"empty requirement never matches", "", []string{"react"}, false},
		{"blank requirement never matches", "   ", []string{"react"}, false},
		{"empty candidate set", "React", nil, false},
		{"blank candidates are ignored", "React", []string{"", " "}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSatisfied(tt.requirement, NewSkillSet(tt.candidates)))
		})
	}
}
