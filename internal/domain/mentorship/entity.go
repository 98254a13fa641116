package mentorship

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

var (
	ErrRequestNotFound = errors.New("session request not found")
	ErrInvalidStatus   = errors.New("invalid status")
)

// ParseDecision accepts only the statuses a guide may move a request to.
func ParseDecision(s string) (RequestStatus, error) {
	switch st := RequestStatus(s); st {
	case RequestApproved, RequestRejected:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

type SessionRequest struct {
	ID           uuid.UUID
	GuideID      uuid.UUID
	ProgrammerID uuid.UUID
	Status       RequestStatus
	CreatedAt    time.Time
}

// PendingRequest is a request as listed for its guide.
type PendingRequest struct {
	ID              uuid.UUID
	Status          RequestStatus
	CreatedAt       time.Time
	ProgrammerName  string
	ProgrammerEmail string
}

type Session struct {
	ID           uuid.UUID
	Title        string
	Description  string
	MeetingLink  string
	GuideID      uuid.UUID
	ProgrammerID uuid.UUID
	Status       SessionStatus
	CreatedAt    time.Time
}

// SessionView is a session with the name of the other participant.
type SessionView struct {
	ID           uuid.UUID
	Title        string
	Description  string
	MeetingLink  string
	CreatedAt    time.Time
	Counterparty string
}
