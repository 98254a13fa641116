package dto

import (
	"aegis/internal/domain/job"

	"github.com/google/uuid"
)

type RoleResponse struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type CompanyResponse struct {
	ID       uuid.UUID      `json:"id"`
	Name     string         `json:"name"`
	JobRoles []RoleResponse `json:"jobRoles"`
}

// JobResponse keeps company_name in snake case; existing clients read it
// that way.
type JobResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	Location     string    `json:"location"`
	CompanyName  string    `json:"company_name"`
}

type UpsertJobResponse struct {
	JobID uuid.UUID `json:"jobId"`
}

func NewCompanyResponses(in []job.CompanyRoles) []CompanyResponse {
	out := make([]CompanyResponse, 0, len(in))
	for _, c := range in {
		roles := make([]RoleResponse, 0, len(c.JobRoles))
		for _, r := range c.JobRoles {
			roles = append(roles, RoleResponse{ID: r.ID, Title: r.Title})
		}
		out = append(out, CompanyResponse{ID: c.ID, Name: c.Name, JobRoles: roles})
	}
	return out
}

func NewJobResponse(l job.Listing) JobResponse {
	return JobResponse{
		ID:           l.ID,
		Title:        l.Title,
		Description:  l.Description,
		Requirements: l.Requirements,
		Location:     l.Location,
		CompanyName:  l.CompanyName,
	}
}

func NewJobResponses(in []job.Listing) []JobResponse {
	out := make([]JobResponse, 0, len(in))
	for _, l := range in {
		out = append(out, NewJobResponse(l))
	}
	return out
}
