package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aegis/internal/config"
	"aegis/internal/delivery/http/handler"
	"aegis/internal/delivery/http/middleware"
	"aegis/internal/delivery/http/routes"
	"aegis/internal/domain/matching"
	"aegis/internal/domain/user"
	"aegis/internal/pkg/jwt"
	"aegis/internal/usecase"

	"github.com/google/uuid"
)

type oneUser struct{ u user.User }

func (r oneUser) Create(context.Context, user.User) error { return nil }
func (r oneUser) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	if id != r.u.ID {
		return user.User{}, user.ErrNotFound
	}
	return r.u, nil
}
func (r oneUser) GetByEmail(context.Context, string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (r oneUser) GetByEmailAndRole(context.Context, string, user.Role) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (r oneUser) ListByRole(context.Context, user.Role) ([]user.User, error) { return nil, nil }

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func TestListenAddr(t *testing.T) {
	cases := map[string]string{"8080": ":8080", ":9000": ":9000", " 80 ": ":80"}
	for in, want := range cases {
		got, err := ListenAddr(in)
		if err != nil || got != want {
			t.Fatalf("ListenAddr(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ListenAddr(" "); err == nil {
		t.Fatalf("expected error for empty port")
	}
}

func TestNew_WiresMiddlewareAndRoutes(t *testing.T) {
	var logs strings.Builder
	logger := log.New(&logs, "", 0)

	svc := jwt.NewHMACService("a", "r", time.Minute, time.Hour)
	ada := user.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", Role: user.RoleProgrammer}

	cfg := config.Config{App: config.AppConfig{AppName: "aegis-test", CORSOrigins: []string{"http://app.test"}, UploadMaxBytes: 1 << 20}}
	f := New(cfg, &routes.Registry{
		Health:         handler.NewHealthHandler(okPinger{}, okPinger{}),
		User:           handler.NewUserHandler(usecase.NewUserUsecase(oneUser{u: ada})),
		AuthMiddleware: middleware.NewAuthMiddleware(svc),
	}, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://app.test")
	resp, err := f.Test(req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "http://app.test" {
		t.Fatalf("expected CORS header, got %v", resp.Header)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}

	resp, err = f.Test(httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	tok, err := svc.GenerateAccessToken(ada.ID, ada.Email, ada.Role.String())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err = f.Test(req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"name":"Ada"`) {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, body)
	}

	if !strings.Contains(logs.String(), "path=/api/users/me status=401") {
		t.Fatalf("expected access log for rejected request, got %q", logs.String())
	}
}

func screenRequest(t *testing.T, files, size int) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("jobDescription", "Python"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	for i := 0; i < files; i++ {
		w, err := mw.CreateFormFile("resumes", fmt.Sprintf("cv%d.pdf", i))
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := w.Write(bytes.Repeat([]byte("x"), size)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/resume/screen", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestNew_BodyLimitFitsScreeningBatch(t *testing.T) {
	cfg := config.Config{App: config.AppConfig{AppName: "aegis-test", UploadMaxBytes: 64 << 10, UploadMaxFiles: 4}}
	resumeUC := usecase.NewResumeUsecase(matching.NewEngine(matching.DefaultVocabulary()), nil, 2, nil)
	f := New(cfg, &routes.Registry{
		Resume: handler.NewResumeHandler(resumeUC, cfg.App.UploadMaxBytes, cfg.App.UploadMaxFiles),
	}, log.New(io.Discard, "", 0))

	// Four files just under the per-file limit exceed it several times over.
	resp, err := f.Test(screenRequest(t, 4, 60<<10))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200 for a full batch, got %d %s", resp.StatusCode, body)
	}

	resp, err = f.Test(screenRequest(t, 1, 65<<10))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for an oversized file, got %d", resp.StatusCode)
	}
}
