package dto

import (
	"time"

	"aegis/internal/domain/mentorship"
	"aegis/internal/domain/notification"

	"github.com/google/uuid"
)

type GuideResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Expertise string    `json:"expertise"`
	Email     string    `json:"email"`
}

type PendingRequestResponse struct {
	ID              uuid.UUID `json:"id"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	ProgrammerName  string    `json:"programmer_name"`
	ProgrammerEmail string    `json:"programmer_email"`
}

// SessionResponse names the other participant: guideName when listed for a
// programmer or for everyone, programmerName when listed for a guide.
type SessionResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	MeetingLink    string    `json:"meetingLink"`
	CreatedAt      time.Time `json:"createdAt"`
	GuideName      string    `json:"guideName,omitempty"`
	ProgrammerName string    `json:"programmerName,omitempty"`
}

type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPendingRequestResponses(in []mentorship.PendingRequest) []PendingRequestResponse {
	out := make([]PendingRequestResponse, 0, len(in))
	for _, r := range in {
		out = append(out, PendingRequestResponse{
			ID:              r.ID,
			Status:          string(r.Status),
			CreatedAt:       r.CreatedAt,
			ProgrammerName:  r.ProgrammerName,
			ProgrammerEmail: r.ProgrammerEmail,
		})
	}
	return out
}

func NewSessionResponses(in []mentorship.SessionView, counterpartyIsGuide bool) []SessionResponse {
	out := make([]SessionResponse, 0, len(in))
	for _, s := range in {
		r := SessionResponse{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			MeetingLink: s.MeetingLink,
			CreatedAt:   s.CreatedAt,
		}
		if counterpartyIsGuide {
			r.GuideName = s.Counterparty
		} else {
			r.ProgrammerName = s.Counterparty
		}
		out = append(out, r)
	}
	return out
}

func NewNotificationResponses(in []notification.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(in))
	for _, n := range in {
		out = append(out, NotificationResponse{ID: n.ID, Message: n.Message, IsRead: n.IsRead, CreatedAt: n.CreatedAt})
	}
	return out
}
