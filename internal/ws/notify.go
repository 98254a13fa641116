package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"aegis/internal/domain/notification"
)

var ErrPushDropped = errors.New("ws push dropped")

type NotificationEvent struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Message   string `json:"message"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

func (h *Hub) Name() string { return "websocket" }

// Deliver pushes n to the recipient's open connections. Users with no open
// connection are skipped silently.
func (h *Hub) Deliver(_ context.Context, n notification.Notification) error {
	if h.UserClientCount(n.UserID) == 0 {
		return nil
	}

	b, err := json.Marshal(NotificationEvent{
		Type:      "notification",
		ID:        n.ID.String(),
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	if !h.PushToUser(n.UserID, b) {
		return ErrPushDropped
	}
	return nil
}
