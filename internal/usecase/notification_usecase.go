package usecase

import (
	"context"
	"errors"
	"log"

	"aegis/internal/domain/notification"
	"aegis/internal/repository"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationSink delivers a stored notification somewhere outside the
// database: live websocket clients, a message broker.
type NotificationSink interface {
	Name() string
	Deliver(ctx context.Context, n notification.Notification) error
}

// Notifier fans a stored notification out to every sink. Sink failures are
// logged and never fail the caller.
type Notifier struct {
	sinks  []NotificationSink
	logger *log.Logger
}

func NewNotifier(logger *log.Logger, sinks ...NotificationSink) *Notifier {
	active := make([]NotificationSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}
	return &Notifier{sinks: active, logger: logger}
}

// Deliver must only be called once the notification is committed.
func (n *Notifier) Deliver(ctx context.Context, stored notification.Notification) {
	for _, s := range n.sinks {
		if err := s.Deliver(ctx, stored); err != nil && n.logger != nil {
			n.logger.Printf("Notification fanout failed | sink=%s user_id=%s err=%v", s.Name(), stored.UserID, err)
		}
	}
}

type NotificationUsecase interface {
	List(ctx context.Context, userID uuid.UUID) ([]notification.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type Notifications struct {
	repo repository.NotificationRepository
}

func NewNotificationUsecase(repo repository.NotificationRepository) *Notifications {
	return &Notifications{repo: repo}
}

func (u *Notifications) List(ctx context.Context, userID uuid.UUID) ([]notification.Notification, error) {
	return u.repo.ListByUser(ctx, userID)
}

func (u *Notifications) MarkRead(ctx context.Context, id uuid.UUID) error {
	if err := u.repo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}
