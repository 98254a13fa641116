package matching

import "strings"

const ShortlistThreshold = 70

type MatchResult struct {
	Score   int
	Found   SkillSet
	Missing SkillSet
}

type Analysis struct {
	Result          MatchResult
	Recommendations []string
}

// Engine extracts skills from free text against a fixed vocabulary.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	vocab Vocabulary
}

func NewEngine(vocab Vocabulary) *Engine {
	return &Engine{vocab: vocab}
}

func (e *Engine) Vocabulary() Vocabulary {
	return e.vocab
}

// Extract reports every vocabulary label whose lowercase form occurs anywhere
// in the lowercased text. Matching is plain substring containment, so "ML"
// is found inside "HTML".
func (e *Engine) Extract(text string) SkillSet {
	out := SkillSet{labels: make([]string, 0)}
	if text == "" {
		return out
	}
	lower := strings.ToLower(text)
	for i, l := range e.vocab.lower {
		if strings.Contains(lower, l) {
			out.labels = append(out.labels, e.vocab.labels[i])
		}
	}
	return out
}

// Analyze scores a resume against a job description and attaches the
// recommendation lines shown to the candidate.
func (e *Engine) Analyze(resumeText, jobText string) Analysis {
	res := Score(e.Extract(resumeText), e.Extract(jobText))
	return Analysis{Result: res, Recommendations: Recommend(res)}
}

// Score computes the share of target skills present in source as a floored
// percentage. An empty target scores 0 with empty found and missing sets.
func Score(source, target SkillSet) MatchResult {
	if target.IsEmpty() {
		return MatchResult{Score: 0, Found: NewSkillSet(), Missing: NewSkillSet()}
	}

	found := target.Intersect(source)
	missing := target.Difference(source)

	return MatchResult{
		Score:   100 * found.Len() / target.Len(),
		Found:   found,
		Missing: missing,
	}
}

func Recommend(res MatchResult) []string {
	out := make([]string, 0, 2)
	if !res.Missing.IsEmpty() {
		out = append(out, "Consider adding: "+res.Missing.String())
	}
	if res.Score < ShortlistThreshold {
		out = append(out, "Tailor your resume to highlight job-relevant skills more clearly.")
	}
	if len(out) == 0 {
		out = append(out, "Excellent! Your resume aligns very well with the job description.")
	}
	return out
}
