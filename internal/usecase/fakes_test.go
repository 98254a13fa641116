package usecase

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"aegis/internal/domain/job"
	"aegis/internal/domain/mentorship"
	"aegis/internal/domain/notification"
	"aegis/internal/domain/user"
	"aegis/internal/repository"

	"github.com/google/uuid"
)

type fakeUsers struct {
	byID map[uuid.UUID]user.User
}

func newFakeUsers(users ...user.User) *fakeUsers {
	f := &fakeUsers{byID: map[uuid.UUID]user.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u user.User) error {
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsers) GetByEmailAndRole(ctx context.Context, email string, role user.Role) (user.User, error) {
	u, err := f.GetByEmail(ctx, email)
	if err != nil || u.Role != role {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) ListByRole(_ context.Context, role user.Role) ([]user.User, error) {
	var out []user.User
	for _, u := range f.byID {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeNotifications struct {
	mu    sync.Mutex
	items []notification.Notification
	err   error
}

func (f *fakeNotifications) Create(_ context.Context, n notification.Notification) (notification.Notification, error) {
	if f.err != nil {
		return notification.Notification{}, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n.CreatedAt = time.Now()
	f.items = append(f.items, n)
	return n, nil
}

func (f *fakeNotifications) ListByUser(_ context.Context, userID uuid.UUID) ([]notification.Notification, error) {
	var out []notification.Notification
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].UserID == userID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, id uuid.UUID) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].IsRead = true
			return nil
		}
	}
	return notification.ErrNotFound
}

type recordingSink struct {
	name      string
	err       error
	delivered []notification.Notification
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(_ context.Context, n notification.Notification) error {
	s.delivered = append(s.delivered, n)
	return s.err
}

// fakeMentorship stores the notification before mutating anything, so a
// failing notes store leaves the state untouched like a rolled back tx.
type fakeMentorship struct {
	requests map[uuid.UUID]mentorship.SessionRequest
	sessions []mentorship.Session
	notes    *fakeNotifications
}

func newFakeMentorship(notes *fakeNotifications) *fakeMentorship {
	return &fakeMentorship{requests: map[uuid.UUID]mentorship.SessionRequest{}, notes: notes}
}

func (f *fakeMentorship) CreateRequest(ctx context.Context, r mentorship.SessionRequest, notice notification.Notification) (notification.Notification, error) {
	stored, err := f.notes.Create(ctx, notice)
	if err != nil {
		return notification.Notification{}, err
	}
	f.requests[r.ID] = r
	return stored, nil
}

func (f *fakeMentorship) GetRequest(_ context.Context, id uuid.UUID) (mentorship.SessionRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return mentorship.SessionRequest{}, mentorship.ErrRequestNotFound
	}
	return r, nil
}

func (f *fakeMentorship) ListPending(_ context.Context, guideID uuid.UUID) ([]mentorship.PendingRequest, error) {
	var out []mentorship.PendingRequest
	for _, r := range f.requests {
		if r.GuideID == guideID && r.Status == mentorship.RequestPending {
			out = append(out, mentorship.PendingRequest{ID: r.ID, Status: r.Status})
		}
	}
	return out, nil
}

func (f *fakeMentorship) UpdateRequestStatus(ctx context.Context, id uuid.UUID, st mentorship.RequestStatus, notice notification.Notification) (notification.Notification, error) {
	r, ok := f.requests[id]
	if !ok {
		return notification.Notification{}, mentorship.ErrRequestNotFound
	}
	stored, err := f.notes.Create(ctx, notice)
	if err != nil {
		return notification.Notification{}, err
	}
	r.Status = st
	f.requests[id] = r
	return stored, nil
}

func (f *fakeMentorship) CreateSession(ctx context.Context, s mentorship.Session, notice notification.Notification) (notification.Notification, error) {
	stored, err := f.notes.Create(ctx, notice)
	if err != nil {
		return notification.Notification{}, err
	}
	f.sessions = append(f.sessions, s)
	for id, r := range f.requests {
		if r.GuideID == s.GuideID && r.ProgrammerID == s.ProgrammerID {
			r.Status = mentorship.RequestApproved
			f.requests[id] = r
		}
	}
	return stored, nil
}

func (f *fakeMentorship) ListSessions(context.Context) ([]mentorship.SessionView, error) {
	return nil, nil
}

func (f *fakeMentorship) ListSessionsForGuide(context.Context, uuid.UUID) ([]mentorship.SessionView, error) {
	return nil, nil
}

func (f *fakeMentorship) ListSessionsForProgrammer(context.Context, uuid.UUID) ([]mentorship.SessionView, error) {
	return nil, nil
}

type fakeCompanies struct {
	calls int
	items []job.CompanyRoles
}

func (f *fakeCompanies) Count(context.Context) (int, error)        { return len(f.items), nil }
func (f *fakeCompanies) Create(context.Context, job.Company) error { return nil }
func (f *fakeCompanies) ListWithRoles(context.Context) ([]job.CompanyRoles, error) {
	f.calls++
	return f.items, nil
}

type fakeJobs struct {
	listings  []job.Listing
	listCalls int
	upserts   []repository.JobUpsert
	created   bool
}

func (f *fakeJobs) Create(context.Context, job.Job) error { return nil }

func (f *fakeJobs) Upsert(_ context.Context, in repository.JobUpsert) (uuid.UUID, bool, error) {
	f.upserts = append(f.upserts, in)
	return uuid.New(), f.created, nil
}

func (f *fakeJobs) ListListings(context.Context) ([]job.Listing, error) {
	f.listCalls++
	return f.listings, nil
}

func (f *fakeJobs) GetListing(_ context.Context, id uuid.UUID) (job.Listing, error) {
	for _, l := range f.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return job.Listing{}, job.ErrNotFound
}

// memCache is an in-process CatalogCache.
type memCache struct {
	data    map[string][]byte
	deleted []string
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.deleted = append(c.deleted, key)
		delete(c.data, key)
	}
	return nil
}

func (c *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

var errBoom = errors.New("boom")

func buildDocx(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml":            `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}
