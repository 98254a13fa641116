package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aegis/internal/domain/notification"
	"aegis/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func testClient(hub *Hub, userID uuid.UUID) *Client {
	return &Client{hub: hub, userID: userID, send: make(chan []byte, 4)}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_PushReachesOnlyTargetUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	alice, bob := uuid.New(), uuid.New()
	a1, a2, b1 := testClient(hub, alice), testClient(hub, alice), testClient(hub, bob)
	hub.Register(a1)
	hub.Register(a2)
	hub.Register(b1)
	waitFor(t, func() bool { return hub.ClientCount() == 3 })

	if !hub.PushToUser(alice, []byte("hello")) {
		t.Fatalf("expected push to be queued")
	}

	for _, c := range []*Client{a1, a2} {
		select {
		case got := <-c.send:
			if string(got) != "hello" {
				t.Fatalf("unexpected payload %q", got)
			}
		case <-time.After(time.Second):
			t.Fatalf("client did not receive push")
		}
	}
	select {
	case got := <-b1.send:
		t.Fatalf("bob should not receive %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	c := testClient(hub, uuid.New())
	hub.Register(c)
	waitFor(t, func() bool { return hub.UserClientCount(c.userID) == 1 })

	hub.Unregister(c)
	waitFor(t, func() bool { return hub.UserClientCount(c.userID) == 0 })
	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel closed")
	}
}

func TestHub_DeliverEncodesNotification(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	userID := uuid.New()
	c := testClient(hub, userID)
	hub.Register(c)
	waitFor(t, func() bool { return hub.UserClientCount(userID) == 1 })

	n := notification.Notification{ID: uuid.New(), UserID: userID, Message: "Your session request has been approved.", CreatedAt: time.Now()}
	if err := hub.Deliver(ctx, n); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	select {
	case raw := <-c.send:
		var evt NotificationEvent
		if err := json.Unmarshal(raw, &evt); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if evt.Type != "notification" || evt.ID != n.ID.String() || evt.Message != n.Message {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event delivered")
	}
}

func TestHub_DeliverWithoutClientsIsNoop(t *testing.T) {
	hub := NewHub(nil)
	if err := hub.Deliver(context.Background(), notification.Notification{UserID: uuid.New()}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestOriginChecker(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws/notifications", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	anyOrigin := originChecker([]string{"*"})
	if !anyOrigin(req("http://evil.test")) {
		t.Fatalf("wildcard should allow any origin")
	}

	strict := originChecker([]string{"http://app.test"})
	if !strict(req("http://app.test")) || !strict(req("")) {
		t.Fatalf("expected configured and empty origins to pass")
	}
	if strict(req("http://evil.test")) {
		t.Fatalf("expected foreign origin rejected")
	}
}

func TestHandler_RejectsMissingOrRefreshToken(t *testing.T) {
	svc := jwt.NewHMACService("a", "r", time.Minute, time.Hour)
	h := NewHandler(NewHub(nil), svc, nil, nil)

	app := fiber.New()
	app.Get("/ws", h.HandleNotificationsWS)

	refresh, err := svc.GenerateRefreshToken(uuid.New())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	for _, target := range []string{"/ws", "/ws?token=garbage", "/ws?token=" + refresh} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", target, resp.StatusCode)
		}
	}
}
