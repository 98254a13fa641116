package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aegis/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var e envelope
	if err := json.Unmarshal(b, &e); err != nil {
		t.Fatalf("decode %q: %v", b, err)
	}
	return e
}

func TestErrorMiddleware_MasksServerErrors(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Get("/boom", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "db password leaked", nil, errors.New("pq"))
	})
	app.Get("/missing", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusNotFound, "Job not found", nil, nil)
	})
	app.Get("/unavailable", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusServiceUnavailable, "redis at 10.0.0.3 refused", fiber.Map{"k": "v"}, nil)
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("nil map")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if e := decode(t, resp); e.Status != 500 || e.Message != "internal server error" {
		t.Fatalf("unexpected envelope %+v", e)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if e := decode(t, resp); e.Status != 404 || e.Message != "Job not found" {
		t.Fatalf("unexpected envelope %+v", e)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/unavailable", nil))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if e := decode(t, resp); e.Status != 503 || e.Message != "service unavailable" {
		t.Fatalf("unexpected envelope %+v", e)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if e := decode(t, resp); e.Status != 500 || e.Message != "internal server error" {
		t.Fatalf("unexpected envelope %+v", e)
	}
}

func TestRequireRole(t *testing.T) {
	svc := jwt.NewHMACService("a", "r", time.Minute, time.Hour)
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Post("/jobs", NewAuthMiddleware(svc).Middleware(), RequireRole("recruiter"), func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	call := func(role string) int {
		tok, err := svc.GenerateAccessToken(uuid.New(), "x@example.com", role)
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		return resp.StatusCode
	}

	if got := call("recruiter"); got != fiber.StatusCreated {
		t.Fatalf("recruiter expected 201, got %d", got)
	}
	if got := call("programmer"); got != fiber.StatusForbidden {
		t.Fatalf("programmer expected 403, got %d", got)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/jobs", nil))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("anonymous expected 401, got %d", resp.StatusCode)
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	l := NewRateLimiter(1, 2)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("1.1.1.1") || !l.Allow("1.1.1.1") {
		t.Fatalf("expected burst of 2 to pass")
	}
	if l.Allow("1.1.1.1") {
		t.Fatalf("expected third request to be limited")
	}
	if !l.Allow("2.2.2.2") {
		t.Fatalf("expected other client to pass")
	}

	now = now.Add(time.Second)
	if !l.Allow("1.1.1.1") {
		t.Fatalf("expected token refill after 1s")
	}
}

func TestRateLimiter_DisabledWhenZeroRate(t *testing.T) {
	l := NewRateLimiter(0, 0)
	for i := 0; i < 10; i++ {
		if !l.Allow("1.1.1.1") {
			t.Fatalf("expected unlimited")
		}
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	l := NewRateLimiter(0.001, 1)
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Post("/upload", l.Middleware(), func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i, want := range []int{fiber.StatusOK, fiber.StatusTooManyRequests} {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/upload", nil))
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if resp.StatusCode != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, resp.StatusCode)
		}
	}
}

func TestAccessLog_RecordsRequestIDAndPrincipal(t *testing.T) {
	var buf bytes.Buffer
	uid := uuid.New()

	app := fiber.New()
	app.Use(NewAccessLogMiddleware(log.New(&buf, "", 0)).Middleware())
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Get("/me", func(c fiber.Ctx) error {
		SetPrincipal(c, Principal{UserID: uid, Role: "guide"})
		return NewAppError(fiber.StatusNotFound, "User not found", nil, nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := resp.Header.Get("X-Request-ID"); got != "req-42" {
		t.Fatalf("expected request id echoed, got %q", got)
	}

	line := buf.String()
	for _, want := range []string{"rid=req-42", "status=404", "user=" + uid.String(), "role=guide", "level=info"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}
