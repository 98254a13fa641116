package repository

import (
	"context"
	"fmt"

	"aegis/internal/database"
	"aegis/internal/domain/mentorship"
	"aegis/internal/domain/notification"

	"github.com/google/uuid"
)

// MentorshipRepository writes each state change together with the
// notification it triggers in one transaction and returns the stored
// notification.
type MentorshipRepository interface {
	CreateRequest(ctx context.Context, req mentorship.SessionRequest, notice notification.Notification) (notification.Notification, error)
	GetRequest(ctx context.Context, id uuid.UUID) (mentorship.SessionRequest, error)
	ListPending(ctx context.Context, guideID uuid.UUID) ([]mentorship.PendingRequest, error)
	UpdateRequestStatus(ctx context.Context, id uuid.UUID, status mentorship.RequestStatus, notice notification.Notification) (notification.Notification, error)

	// CreateSession inserts the session and approves every request between
	// its guide and programmer.
	CreateSession(ctx context.Context, s mentorship.Session, notice notification.Notification) (notification.Notification, error)
	ListSessions(ctx context.Context) ([]mentorship.SessionView, error)
	ListSessionsForGuide(ctx context.Context, guideID uuid.UUID) ([]mentorship.SessionView, error)
	ListSessionsForProgrammer(ctx context.Context, programmerID uuid.UUID) ([]mentorship.SessionView, error)
}

type PostgresMentorshipRepository struct {
	db database.DB
}

func NewPostgresMentorshipRepository(db database.DB) *PostgresMentorshipRepository {
	return &PostgresMentorshipRepository{db: db}
}

func (r *PostgresMentorshipRepository) CreateRequest(ctx context.Context, req mentorship.SessionRequest, notice notification.Notification) (notification.Notification, error) {
	var stored notification.Notification
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO session_requests (id, guide_id, programmer_id, status) VALUES ($1, $2, $3, $4)`,
			req.ID, req.GuideID, req.ProgrammerID, string(req.Status),
		)
		if err != nil {
			return fmt.Errorf("insert session request: %w", err)
		}
		stored, err = insertNotification(ctx, tx, notice)
		return err
	})
	if err != nil {
		return notification.Notification{}, err
	}
	return stored, nil
}

func (r *PostgresMentorshipRepository) GetRequest(ctx context.Context, id uuid.UUID) (mentorship.SessionRequest, error) {
	var (
		req    mentorship.SessionRequest
		status string
	)
	row := r.db.QueryRow(ctx,
		`SELECT id, guide_id, programmer_id, status, created_at FROM session_requests WHERE id = $1`, id)
	if err := row.Scan(&req.ID, &req.GuideID, &req.ProgrammerID, &status, &req.CreatedAt); err != nil {
		if isNoRows(err) {
			return mentorship.SessionRequest{}, mentorship.ErrRequestNotFound
		}
		return mentorship.SessionRequest{}, err
	}
	req.Status = mentorship.RequestStatus(status)
	return req, nil
}

func (r *PostgresMentorshipRepository) ListPending(ctx context.Context, guideID uuid.UUID) ([]mentorship.PendingRequest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT sr.id, sr.status, sr.created_at, u.name, u.email
		 FROM session_requests sr
		 JOIN users u ON u.id = sr.programmer_id
		 WHERE sr.guide_id = $1 AND sr.status = 'pending'
		 ORDER BY sr.created_at ASC`,
		guideID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]mentorship.PendingRequest, 0)
	for rows.Next() {
		var (
			p      mentorship.PendingRequest
			status string
		)
		if err := rows.Scan(&p.ID, &status, &p.CreatedAt, &p.ProgrammerName, &p.ProgrammerEmail); err != nil {
			return nil, err
		}
		p.Status = mentorship.RequestStatus(status)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMentorshipRepository) UpdateRequestStatus(ctx context.Context, id uuid.UUID, status mentorship.RequestStatus, notice notification.Notification) (notification.Notification, error) {
	var stored notification.Notification
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		n, err := tx.Exec(ctx, `UPDATE session_requests SET status = $1 WHERE id = $2`, string(status), id)
		if err != nil {
			return err
		}
		if n == 0 {
			return mentorship.ErrRequestNotFound
		}
		stored, err = insertNotification(ctx, tx, notice)
		return err
	})
	if err != nil {
		return notification.Notification{}, err
	}
	return stored, nil
}

func (r *PostgresMentorshipRepository) CreateSession(ctx context.Context, s mentorship.Session, notice notification.Notification) (notification.Notification, error) {
	var stored notification.Notification
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO qa_sessions (id, title, description, meeting_link, guide_id, programmer_id, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			s.ID, s.Title, s.Description, s.MeetingLink, s.GuideID, s.ProgrammerID, string(s.Status),
		)
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE session_requests SET status = 'approved' WHERE guide_id = $1 AND programmer_id = $2`,
			s.GuideID, s.ProgrammerID,
		)
		if err != nil {
			return fmt.Errorf("approve requests: %w", err)
		}

		stored, err = insertNotification(ctx, tx, notice)
		return err
	})
	if err != nil {
		return notification.Notification{}, err
	}
	return stored, nil
}

const sessionViewSelect = `SELECT s.id, s.title, COALESCE(s.description, ''), COALESCE(s.meeting_link, ''), s.created_at, u.name
	 FROM qa_sessions s`

func (r *PostgresMentorshipRepository) ListSessions(ctx context.Context) ([]mentorship.SessionView, error) {
	return r.listSessions(ctx,
		sessionViewSelect+` JOIN users u ON u.id = s.guide_id ORDER BY s.created_at DESC`)
}

func (r *PostgresMentorshipRepository) ListSessionsForGuide(ctx context.Context, guideID uuid.UUID) ([]mentorship.SessionView, error) {
	return r.listSessions(ctx,
		sessionViewSelect+` JOIN users u ON u.id = s.programmer_id WHERE s.guide_id = $1 ORDER BY s.created_at DESC`,
		guideID)
}

func (r *PostgresMentorshipRepository) ListSessionsForProgrammer(ctx context.Context, programmerID uuid.UUID) ([]mentorship.SessionView, error) {
	return r.listSessions(ctx,
		sessionViewSelect+` JOIN users u ON u.id = s.guide_id WHERE s.programmer_id = $1 ORDER BY s.created_at DESC`,
		programmerID)
}

func (r *PostgresMentorshipRepository) listSessions(ctx context.Context, query string, args ...any) ([]mentorship.SessionView, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]mentorship.SessionView, 0)
	for rows.Next() {
		var v mentorship.SessionView
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.MeetingLink, &v.CreatedAt, &v.Counterparty); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
