// Package match scores a candidate's skills against job requirements and ranks
// job collections by the result. Everything here is a pure function of its
// inputs: no I/O, no package state, safe to call from any goroutine.
package match

import (
	"sort"
	"strings"
)

// Normalize returns the comparison form of a skill name: trimmed and
// lower-cased. Punctuation and token order are left alone, so "Node.js" and
// "node.js" compare equal but "Node.js" and "nodejs" do not.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SkillSet is a normalized, deduplicated candidate skill set.
// The zero value is an empty set.
type SkillSet struct {
	names []string
}

// NewSkillSet builds a SkillSet from raw skill names. Blank names are dropped.
// The input slice is not modified.
func NewSkillSet(names []string) SkillSet {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		norm := Normalize(n)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	sort.Strings(out)
	return SkillSet{names: out}
}

// Len returns the number of distinct skills.
func (s SkillSet) Len() int {
	return len(s.names)
}

// Names returns a copy of the normalized names in sorted order.
func (s SkillSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
