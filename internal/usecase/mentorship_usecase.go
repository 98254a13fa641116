package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"aegis/internal/domain/mentorship"
	"aegis/internal/domain/notification"
	"aegis/internal/domain/user"
	"aegis/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrGuideNotFound      = errors.New("guide not found")
	ErrProgrammerNotFound = errors.New("programmer not found")
	ErrRequestNotFound    = errors.New("session request not found")
	ErrInvalidStatus      = errors.New("invalid status")
)

const guideExpertise = "General Guidance"

type Guide struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Expertise string
}

type CreateSessionInput struct {
	Title        string
	Description  string
	MeetingLink  string
	GuideID      uuid.UUID
	ProgrammerID uuid.UUID
}

type MentorshipUsecase interface {
	ListGuides(ctx context.Context) ([]Guide, error)
	RequestSession(ctx context.Context, guideID, programmerID uuid.UUID) (user.User, error)
	PendingRequests(ctx context.Context, guideID uuid.UUID) ([]mentorship.PendingRequest, error)
	UpdateRequest(ctx context.Context, requestID uuid.UUID, status string) (mentorship.RequestStatus, error)
	CreateSession(ctx context.Context, in CreateSessionInput) (uuid.UUID, error)
	ListSessions(ctx context.Context) ([]mentorship.SessionView, error)
	ListSessionsForGuide(ctx context.Context, guideID uuid.UUID) ([]mentorship.SessionView, error)
	ListSessionsForProgrammer(ctx context.Context, programmerID uuid.UUID) ([]mentorship.SessionView, error)
}

type Mentorship struct {
	users    user.Repository
	repo     repository.MentorshipRepository
	notifier *Notifier
}

func NewMentorshipUsecase(users user.Repository, repo repository.MentorshipRepository, notifier *Notifier) *Mentorship {
	return &Mentorship{users: users, repo: repo, notifier: notifier}
}

func (u *Mentorship) ListGuides(ctx context.Context) ([]Guide, error) {
	guides, err := u.users.ListByRole(ctx, user.RoleGuide)
	if err != nil {
		return nil, err
	}
	out := make([]Guide, 0, len(guides))
	for _, g := range guides {
		out = append(out, Guide{ID: g.ID, Name: g.Name, Email: g.Email, Expertise: guideExpertise})
	}
	return out, nil
}

// RequestSession records a pending request and notifies the guide. It
// returns the guide so callers can confirm who was asked.
func (u *Mentorship) RequestSession(ctx context.Context, guideID, programmerID uuid.UUID) (user.User, error) {
	if guideID == uuid.Nil || programmerID == uuid.Nil {
		return user.User{}, ErrInvalidInput
	}

	guide, err := u.userWithRole(ctx, guideID, user.RoleGuide, ErrGuideNotFound)
	if err != nil {
		return user.User{}, err
	}
	programmer, err := u.userWithRole(ctx, programmerID, user.RoleProgrammer, ErrProgrammerNotFound)
	if err != nil {
		return user.User{}, err
	}

	req := mentorship.SessionRequest{
		ID:           uuid.New(),
		GuideID:      guide.ID,
		ProgrammerID: programmer.ID,
		Status:       mentorship.RequestPending,
	}
	notice := notification.New(guide.ID, fmt.Sprintf("You have a new session request from %s.", programmer.Name))
	stored, err := u.repo.CreateRequest(ctx, req, notice)
	if err != nil {
		return user.User{}, err
	}
	u.notifier.Deliver(ctx, stored)

	guide.PasswordHash = ""
	return guide, nil
}

func (u *Mentorship) PendingRequests(ctx context.Context, guideID uuid.UUID) ([]mentorship.PendingRequest, error) {
	return u.repo.ListPending(ctx, guideID)
}

func (u *Mentorship) UpdateRequest(ctx context.Context, requestID uuid.UUID, status string) (mentorship.RequestStatus, error) {
	decision, err := mentorship.ParseDecision(status)
	if err != nil {
		return "", ErrInvalidStatus
	}

	req, err := u.repo.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, mentorship.ErrRequestNotFound) {
			return "", ErrRequestNotFound
		}
		return "", err
	}

	notice := notification.New(req.ProgrammerID, fmt.Sprintf("Your session request has been %s.", decision))
	stored, err := u.repo.UpdateRequestStatus(ctx, req.ID, decision, notice)
	if err != nil {
		if errors.Is(err, mentorship.ErrRequestNotFound) {
			return "", ErrRequestNotFound
		}
		return "", err
	}
	u.notifier.Deliver(ctx, stored)
	return decision, nil
}

func (u *Mentorship) CreateSession(ctx context.Context, in CreateSessionInput) (uuid.UUID, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.MeetingLink = strings.TrimSpace(in.MeetingLink)
	if in.Title == "" || in.Description == "" || in.MeetingLink == "" || in.GuideID == uuid.Nil || in.ProgrammerID == uuid.Nil {
		return uuid.Nil, ErrInvalidInput
	}
	if _, err := u.userWithRole(ctx, in.GuideID, user.RoleGuide, ErrGuideNotFound); err != nil {
		return uuid.Nil, err
	}
	if _, err := u.userWithRole(ctx, in.ProgrammerID, user.RoleProgrammer, ErrProgrammerNotFound); err != nil {
		return uuid.Nil, err
	}

	s := mentorship.Session{
		ID:           uuid.New(),
		Title:        in.Title,
		Description:  in.Description,
		MeetingLink:  in.MeetingLink,
		GuideID:      in.GuideID,
		ProgrammerID: in.ProgrammerID,
		Status:       mentorship.SessionScheduled,
	}
	notice := notification.New(s.ProgrammerID, "A new 1:1 session has been created for you: "+s.Title)
	stored, err := u.repo.CreateSession(ctx, s, notice)
	if err != nil {
		return uuid.Nil, err
	}
	u.notifier.Deliver(ctx, stored)
	return s.ID, nil
}

func (u *Mentorship) ListSessions(ctx context.Context) ([]mentorship.SessionView, error) {
	return u.repo.ListSessions(ctx)
}

func (u *Mentorship) ListSessionsForGuide(ctx context.Context, guideID uuid.UUID) ([]mentorship.SessionView, error) {
	return u.repo.ListSessionsForGuide(ctx, guideID)
}

func (u *Mentorship) ListSessionsForProgrammer(ctx context.Context, programmerID uuid.UUID) ([]mentorship.SessionView, error) {
	return u.repo.ListSessionsForProgrammer(ctx, programmerID)
}

func (u *Mentorship) userWithRole(ctx context.Context, id uuid.UUID, role user.Role, notFound error) (user.User, error) {
	usr, err := u.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, notFound
		}
		return user.User{}, err
	}
	if usr.Role != role {
		return user.User{}, notFound
	}
	return usr, nil
}
