package notification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("notification not found")

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

// New builds an unread notification with a fresh id. CreatedAt is set by the
// store.
func New(userID uuid.UUID, message string) Notification {
	return Notification{ID: uuid.New(), UserID: userID, Message: message}
}
