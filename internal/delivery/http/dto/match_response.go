package dto

import (
	"aegis/internal/domain/job"
	"aegis/internal/domain/matching"

	"github.com/google/uuid"
)

type AnalysisResponse struct {
	Score           int      `json:"score"`
	SkillsFound     []string `json:"skillsFound"`
	SkillsMissing   []string `json:"skillsMissing"`
	Recommendations []string `json:"recommendations"`
}

type CandidateResponse struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Score         int      `json:"score"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	FileName      string   `json:"fileName"`
	IsShortlisted bool     `json:"isShortlisted"`
}

type SummaryResponse struct {
	Total         int     `json:"total"`
	Shortlisted   int     `json:"shortlisted"`
	Rejected      int     `json:"rejected"`
	ShortlistRate float64 `json:"shortlistRate"`
}

type ScreeningResponse struct {
	Candidates  []CandidateResponse `json:"candidates"`
	Shortlisted []CandidateResponse `json:"shortlisted"`
	Rejected    []CandidateResponse `json:"rejected"`
	Summary     SummaryResponse     `json:"summary"`
}

type MatchedJobResponse struct {
	JobID        uuid.UUID `json:"jobId"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Industry     string    `json:"industry"`
	Location     string    `json:"location"`
	Score        int       `json:"score"`
	Requirements string    `json:"requirements"`
}

type JobFindingResponse struct {
	Analysis    AnalysisResponse     `json:"analysis"`
	MatchedJobs []MatchedJobResponse `json:"matchedJobs"`
}

func NewAnalysisResponse(a matching.Analysis) AnalysisResponse {
	return AnalysisResponse{
		Score:           a.Result.Score,
		SkillsFound:     a.Result.Found.Labels(),
		SkillsMissing:   a.Result.Missing.Labels(),
		Recommendations: a.Recommendations,
	}
}

func NewCandidateResponses(in []matching.Candidate) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(in))
	for _, c := range in {
		out = append(out, CandidateResponse{
			Name:          c.Name,
			Email:         c.Email,
			Score:         c.Result.Score,
			MatchedSkills: c.Result.Found.Labels(),
			MissingSkills: c.Result.Missing.Labels(),
			FileName:      c.FileName,
			IsShortlisted: c.Shortlisted,
		})
	}
	return out
}

func NewSummaryResponse(s matching.Summary) SummaryResponse {
	return SummaryResponse{
		Total:         s.Total,
		Shortlisted:   s.Shortlisted,
		Rejected:      s.Rejected,
		ShortlistRate: s.ShortlistRate,
	}
}

func NewMatchedJobResponses(in []matching.Ranked[job.Listing]) []MatchedJobResponse {
	out := make([]MatchedJobResponse, 0, len(in))
	for _, m := range in {
		out = append(out, MatchedJobResponse{
			JobID:        m.Item.ID,
			Title:        m.Item.Title,
			Company:      m.Item.CompanyName,
			Industry:     m.Item.Industry,
			Location:     m.Item.DisplayLocation(),
			Score:        m.Result.Score,
			Requirements: m.Item.Requirements,
		})
	}
	return out
}
