package matching

import (
	"sort"
	"strconv"
)

type CandidateInput struct {
	Name     string
	Email    string
	FileName string
	Skills   SkillSet
}

type Candidate struct {
	Name        string
	Email       string
	FileName    string
	Result      MatchResult
	Shortlisted bool
}

type Summary struct {
	Total         int
	Shortlisted   int
	Rejected      int
	ShortlistRate float64
}

type Ranked[T any] struct {
	Item   T
	Result MatchResult
}

// RankCandidates scores every candidate against the same target, marks those
// at or above ShortlistThreshold and orders them by score, highest first.
// Equal scores keep their input order.
func RankCandidates(in []CandidateInput, target SkillSet) ([]Candidate, Summary) {
	out := make([]Candidate, 0, len(in))
	for _, c := range in {
		res := Score(c.Skills, target)
		out = append(out, Candidate{
			Name:        c.Name,
			Email:       c.Email,
			FileName:    c.FileName,
			Result:      res,
			Shortlisted: res.Score >= ShortlistThreshold,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Result.Score > out[j].Result.Score
	})

	return out, Summarize(out)
}

func Summarize(cands []Candidate) Summary {
	s := Summary{Total: len(cands)}
	for _, c := range cands {
		if c.Shortlisted {
			s.Shortlisted++
		} else {
			s.Rejected++
		}
	}
	if s.Total > 0 {
		s.ShortlistRate = roundTenth(float64(s.Shortlisted) / float64(s.Total) * 100)
	}
	return s
}

// roundTenth rounds to one decimal place on the exact decimal value of v,
// exact halves going to the even digit: 6.25 becomes 6.2.
func roundTenth(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}

func Partition(cands []Candidate) (shortlisted, rejected []Candidate) {
	shortlisted = make([]Candidate, 0, len(cands))
	rejected = make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Shortlisted {
			shortlisted = append(shortlisted, c)
		} else {
			rejected = append(rejected, c)
		}
	}
	return shortlisted, rejected
}

// RankJobs scores each job's skills against one source skill set and keeps
// only jobs with a strictly positive score, highest first, stable on ties.
func RankJobs[T any](jobs []T, skillsOf func(T) SkillSet, source SkillSet) []Ranked[T] {
	out := make([]Ranked[T], 0, len(jobs))
	for _, j := range jobs {
		res := Score(source, skillsOf(j))
		if res.Score <= 0 {
			continue
		}
		out = append(out, Ranked[T]{Item: j, Result: res})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Result.Score > out[j].Result.Score
	})
	return out
}
