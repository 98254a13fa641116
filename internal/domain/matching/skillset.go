package matching

import "strings"

// SkillSet is a duplicate-free set of skill labels that remembers insertion
// order. Sets produced by Engine.Extract are in vocabulary order, and so are
// the results of Intersect and Difference on them.
type SkillSet struct {
	labels []string
}

func NewSkillSet(labels ...string) SkillSet {
	s := SkillSet{labels: make([]string, 0, len(labels))}
	for _, l := range labels {
		if l == "" || s.Contains(l) {
			continue
		}
		s.labels = append(s.labels, l)
	}
	return s
}

func (s SkillSet) Len() int {
	return len(s.labels)
}

func (s SkillSet) IsEmpty() bool {
	return len(s.labels) == 0
}

func (s SkillSet) Contains(label string) bool {
	for _, l := range s.labels {
		if l == label {
			return true
		}
	}
	return false
}

// Labels returns a copy of the members. The result is never nil.
func (s SkillSet) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Intersect keeps the members of s that are also in other, in s's order.
func (s SkillSet) Intersect(other SkillSet) SkillSet {
	out := SkillSet{labels: make([]string, 0, len(s.labels))}
	for _, l := range s.labels {
		if other.Contains(l) {
			out.labels = append(out.labels, l)
		}
	}
	return out
}

// Difference keeps the members of s that are not in other, in s's order.
func (s SkillSet) Difference(other SkillSet) SkillSet {
	out := SkillSet{labels: make([]string, 0, len(s.labels))}
	for _, l := range s.labels {
		if !other.Contains(l) {
			out.labels = append(out.labels, l)
		}
	}
	return out
}

func (s SkillSet) Equal(other SkillSet) bool {
	if len(s.labels) != len(other.labels) {
		return false
	}
	for _, l := range s.labels {
		if !other.Contains(l) {
			return false
		}
	}
	return true
}

func (s SkillSet) String() string {
	return strings.Join(s.labels, ", ")
}
