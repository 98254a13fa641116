package job

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("job not found")
	ErrCompanyNotFound = errors.New("company not found")
)

type Company struct {
	ID          uuid.UUID
	Name        string
	Description string
	Location    string
	Industry    string
	Employees   string
	CreatedAt   time.Time
}

type Job struct {
	ID           uuid.UUID
	CompanyID    uuid.UUID
	RecruiterID  *uuid.UUID
	Title        string
	Description  string
	Requirements string
	Location     string
	CreatedAt    time.Time
}

// Listing is a job joined with the company fields shown alongside it.
type Listing struct {
	Job
	CompanyName     string
	Industry        string
	CompanyLocation string
}

// MatchText is the text skills are extracted from when ranking jobs.
func (l Listing) MatchText() string {
	return l.Description + " " + l.Requirements
}

// DisplayLocation falls back to the company location when the job has none.
func (l Listing) DisplayLocation() string {
	if strings.TrimSpace(l.Location) != "" {
		return l.Location
	}
	return l.CompanyLocation
}

type RoleRef struct {
	ID    uuid.UUID
	Title string
}

// CompanyRoles is a company with the titles of its open jobs.
type CompanyRoles struct {
	ID       uuid.UUID
	Name     string
	JobRoles []RoleRef
}
