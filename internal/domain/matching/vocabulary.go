package matching

import "strings"

// Vocabulary is the ordered list of skill labels the extractor recognizes.
// It is immutable once built; share it freely between goroutines.
type Vocabulary struct {
	labels []string
	lower  []string
}

var defaultLabels = []string{"Python", "JavaScript", "React", "Node.js", "SQL", "AWS", "Docker", "ML"}

func NewVocabulary(labels ...string) Vocabulary {
	v := Vocabulary{
		labels: make([]string, 0, len(labels)),
		lower:  make([]string, 0, len(labels)),
	}
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		key := strings.ToLower(l)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		v.labels = append(v.labels, l)
		v.lower = append(v.lower, key)
	}
	return v
}

func DefaultVocabulary() Vocabulary {
	return NewVocabulary(defaultLabels...)
}

func (v Vocabulary) Len() int {
	return len(v.labels)
}

func (v Vocabulary) Labels() []string {
	out := make([]string, len(v.labels))
	copy(out, v.labels)
	return out
}
