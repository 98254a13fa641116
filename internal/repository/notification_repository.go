package repository

import (
	"context"
	"fmt"

	"aegis/internal/database"
	"aegis/internal/domain/notification"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, n notification.Notification) (notification.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]notification.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type PostgresNotificationRepository struct {
	db database.DB
}

func NewPostgresNotificationRepository(db database.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	return insertNotification(ctx, r.db, n)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, query string, args ...any) database.Row
}

// insertNotification runs on either the pool or an open transaction.
func insertNotification(ctx context.Context, q rowQuerier, n notification.Notification) (notification.Notification, error) {
	row := q.QueryRow(ctx,
		`INSERT INTO notifications (id, user_id, message) VALUES ($1, $2, $3)
		 RETURNING is_read, created_at`,
		n.ID, n.UserID, n.Message,
	)
	if err := row.Scan(&n.IsRead, &n.CreatedAt); err != nil {
		return notification.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]notification.Notification, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, message, is_read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notification.Notification, 0)
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return notification.ErrNotFound
	}
	return nil
}
