package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/today-todo/config"
	"github.com/oksasatya/today-todo/internal/application"
	"github.com/oksasatya/today-todo/internal/container"
	"github.com/oksasatya/today-todo/internal/infrastructure/sqlite"
	"github.com/oksasatya/today-todo/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

// memSessions stands in for Redis.
type memSessions struct {
	mu       sync.Mutex
	sessions map[int64]application.Session
	guests   map[string]bool
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: map[int64]application.Session{}, guests: map[string]bool{}}
}

func (m *memSessions) SaveSession(_ context.Context, s application.Session, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID] = s
	return nil
}

func (m *memSessions) GetSession(_ context.Context, userID int64) (*application.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memSessions) UpdateSession(_ context.Context, userID int64, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil
	}
	if v, ok := fields["nickname"].(string); ok {
		s.Nickname = v
	}
	m.sessions[userID] = s
	return nil
}

func (m *memSessions) DeleteSession(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

func (m *memSessions) CreateGuest(_ context.Context, guestID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guests[guestID] = true
	return nil
}

func (m *memSessions) TouchGuest(_ context.Context, guestID string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.guests[guestID], nil
}

func (m *memSessions) GuestAlive(_ context.Context, guestID string) (bool, error) {
	return m.TouchGuest(context.Background(), guestID, 0)
}

func (m *memSessions) DeleteGuest(_ context.Context, guestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.guests, guestID)
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		AppName:             "today-todo-test",
		Env:                 "test",
		JWTAccessSecret:     "test-access",
		JWTRefreshSecret:    "test-refresh",
		AccessTTL:           time.Hour,
		RefreshTTL:          24 * time.Hour,
		SessionTTL:          24 * time.Hour,
		GuestTTL:            time.Hour,
		CORSAllowedOrigins:  "http://localhost:3000",
		DebugMetricsEnabled: true,
	}
	c := container.New(cfg, logger)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sqlite.NewDB(fmt.Sprintf("file:router_%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	c.UseSQLite(db)
	c.Sessions = newMemSessions()
	t.Cleanup(c.Close)

	srv := httptest.NewServer(NewEngine(c))
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Status    int               `json:"status"`
	RequestID string            `json:"request_id"`
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Data      json.RawMessage   `json:"data"`
	Meta      map[string]any    `json:"meta"`
	Error     string            `json:"error"`
	Details   map[string]string `json:"details"`
}

// client is one browser: its own cookie jar.
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &client{t: t, base: srv.URL, http: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body any) (*http.Response, envelope) {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, r)
	if err != nil {
		c.t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatal(err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
	}
	return resp, env
}

// expect runs a request and fails unless the status matches.
func (c *client) expect(status int, method, path string, body any) envelope {
	c.t.Helper()
	resp, env := c.do(method, path, body)
	if resp.StatusCode != status {
		c.t.Fatalf("%s %s: status %d, want %d (%s %v)", method, path, resp.StatusCode, status, env.Error, env.Details)
	}
	return env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return v
}

type userJSON struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Nickname       string `json:"nickname"`
	Bio            string `json:"bio"`
	FollowersCount *int   `json:"followers_count"`
	FollowingCount *int   `json:"following_count"`
}

type taskJSON struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	Pinned     bool   `json:"pinned"`
	IsPublic   bool   `json:"is_public"`
	CategoryID *int64 `json:"category_id"`
	UserID     *int64 `json:"user_id"`
}

type feedJSON struct {
	taskJSON
	Category      *string `json:"category"`
	CategoryColor *string `json:"category_color"`
	User          struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

type notificationJSON struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Read    bool   `json:"read"`
	Sender  *struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	} `json:"sender"`
}

func (c *client) signUp(username string) userJSON {
	c.t.Helper()
	c.expect(http.StatusCreated, http.MethodPost, "/api/register", map[string]string{
		"username": username, "email": username + "@example.com", "password": "secret123",
	})
	return decode[userJSON](c.t, c.expect(http.StatusOK, http.MethodPost, "/api/login", map[string]string{
		"username": username, "password": "secret123",
	}))
}

func TestEnvelopeAndGuestIdentity(t *testing.T) {
	srv := newTestServer(t)
	anon := newClient(t, srv)

	resp, env := anon.do(http.MethodGet, "/api/todos", nil)
	if resp.StatusCode != http.StatusOK || !env.Success || env.Status != http.StatusOK {
		t.Fatalf("unexpected envelope: %d %+v", resp.StatusCode, env)
	}
	if env.RequestID == "" || resp.Header.Get("X-Request-ID") != env.RequestID {
		t.Fatalf("request id missing: %q vs header %q", env.RequestID, resp.Header.Get("X-Request-ID"))
	}
	if string(env.Data) != "[]" {
		t.Fatalf("empty list must serialize as [], got %s", env.Data)
	}
	var guest string
	for _, ck := range resp.Cookies() {
		if ck.Name == helpers.GuestIDCookie {
			guest = ck.Value
		}
	}
	if guest == "" {
		t.Fatalf("guest cookie not issued")
	}

	// same guest across requests
	created := decode[taskJSON](t, anon.expect(http.StatusCreated, http.MethodPost, "/api/todos", map[string]any{
		"title": "buy milk", "date": "2026-10-17", "is_public": true,
	}))
	if created.IsPublic || created.UserID != nil {
		t.Fatalf("guest task must be private and user-less: %+v", created)
	}
	list := decode[[]taskJSON](t, anon.expect(http.StatusOK, http.MethodGet, "/api/todos?date=2026-10-17", nil))
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("guest list = %+v", list)
	}

	// a second browser is a different guest
	other := newClient(t, srv)
	if got := decode[[]taskJSON](t, other.expect(http.StatusOK, http.MethodGet, "/api/todos", nil)); len(got) != 0 {
		t.Fatalf("second guest sees %+v", got)
	}
	other.expect(http.StatusForbidden, http.MethodDelete, fmt.Sprintf("/api/todos/%d", created.ID), nil)
}

func TestErrorEnvelopes(t *testing.T) {
	srv := newTestServer(t)
	anon := newClient(t, srv)

	env := anon.expect(http.StatusUnauthorized, http.MethodGet, "/api/profile", nil)
	if env.Success || env.Error == "" || string(env.Data) != "null" {
		t.Fatalf("unexpected 401 envelope: %+v", env)
	}

	env = anon.expect(http.StatusBadRequest, http.MethodPost, "/api/todos", map[string]any{"title": "x", "date": "17/10/2026"})
	if env.Details["date"] == "" {
		t.Fatalf("expected date detail, got %v", env.Details)
	}
	anon.expect(http.StatusBadRequest, http.MethodPost, "/api/todos", map[string]any{"date": "2026-10-17"})
	anon.expect(http.StatusBadRequest, http.MethodPut, "/api/todos/abc", map[string]any{})
	anon.expect(http.StatusNotFound, http.MethodPut, "/api/todos/999", map[string]any{"title": "x"})

	alice := newClient(t, srv)
	alice.signUp("alice")
	alice.expect(http.StatusConflict, http.MethodPost, "/api/register", map[string]string{
		"username": "alice", "email": "other@example.com", "password": "secret123",
	})
	alice.expect(http.StatusConflict, http.MethodPost, "/api/register", map[string]string{
		"username": "alice2", "email": "alice@example.com", "password": "secret123",
	})
	bad := alice.expect(http.StatusUnauthorized, http.MethodPost, "/api/login", map[string]string{"username": "alice", "password": "nope-nope"})
	unknown := alice.expect(http.StatusUnauthorized, http.MethodPost, "/api/login", map[string]string{"username": "ghost", "password": "nope-nope"})
	if bad.Error != unknown.Error {
		t.Fatalf("login errors differ: %q vs %q", bad.Error, unknown.Error)
	}
	alice.expect(http.StatusBadRequest, http.MethodPost, "/api/users/1/follow", nil)
}

func TestProfileLifecycle(t *testing.T) {
	srv := newTestServer(t)
	alice := newClient(t, srv)
	me := alice.signUp("alice")
	if me.Nickname != "alice" {
		t.Fatalf("nickname should default to username, got %q", me.Nickname)
	}

	p := decode[userJSON](t, alice.expect(http.StatusOK, http.MethodPut, "/api/profile", map[string]any{"bio": "hi there"}))
	if p.Bio != "hi there" || p.Nickname != "alice" || p.FollowersCount == nil || *p.FollowersCount != 0 {
		t.Fatalf("profile after bio update = %+v", p)
	}
	p = decode[userJSON](t, alice.expect(http.StatusOK, http.MethodPut, "/api/profile", map[string]any{"nickname": "Al"}))
	if p.Bio != "hi there" || p.Nickname != "Al" {
		t.Fatalf("absent bio must be kept: %+v", p)
	}

	alice.expect(http.StatusOK, http.MethodPost, "/api/refresh", nil)
	alice.expect(http.StatusOK, http.MethodGet, "/api/profile", nil)

	alice.expect(http.StatusOK, http.MethodPost, "/api/logout", nil)
	alice.expect(http.StatusUnauthorized, http.MethodGet, "/api/profile", nil)
}

func TestLoginMergesGuestData(t *testing.T) {
	srv := newTestServer(t)
	bob := newClient(t, srv)
	bob.expect(http.StatusCreated, http.MethodPost, "/api/register", map[string]string{
		"username": "bob", "email": "bob@example.com", "password": "secret123",
	})

	cat := decode[struct {
		ID int64 `json:"id"`
	}](t, bob.expect(http.StatusCreated, http.MethodPost, "/api/categories", map[string]string{"name": "Errands"}))
	bob.expect(http.StatusCreated, http.MethodPost, "/api/todos", map[string]any{
		"title": "guest task", "date": "2026-10-17", "category_id": cat.ID,
	})

	me := decode[userJSON](t, bob.expect(http.StatusOK, http.MethodPost, "/api/login", map[string]string{
		"username": "bob", "password": "secret123",
	}))

	tasks := decode[[]taskJSON](t, bob.expect(http.StatusOK, http.MethodGet, "/api/todos", nil))
	if len(tasks) != 1 || tasks[0].UserID == nil || *tasks[0].UserID != me.ID {
		t.Fatalf("guest task not merged: %+v", tasks)
	}
	if tasks[0].CategoryID == nil || *tasks[0].CategoryID != cat.ID {
		t.Fatalf("category reference lost: %+v", tasks[0])
	}
	cats := decode[[]struct {
		Name string `json:"name"`
	}](t, bob.expect(http.StatusOK, http.MethodGet, "/api/categories", nil))
	if len(cats) != 1 || cats[0].Name != "Errands" {
		t.Fatalf("categories = %+v", cats)
	}
}

func TestTaskOwnershipAndFilters(t *testing.T) {
	srv := newTestServer(t)
	alice, bob := newClient(t, srv), newClient(t, srv)
	alice.signUp("alice")
	bob.signUp("bob")

	mine := decode[taskJSON](t, alice.expect(http.StatusCreated, http.MethodPost, "/api/todos", map[string]any{
		"title": "today", "date": "2026-10-17",
	}))
	pinned := decode[taskJSON](t, alice.expect(http.StatusCreated, http.MethodPost, "/api/todos", map[string]any{
		"title": "always", "date": "2026-10-01",
	}))
	toggled := decode[taskJSON](t, alice.expect(http.StatusOK, http.MethodPost, fmt.Sprintf("/api/todos/%d/toggle-pin", pinned.ID), nil))
	if !toggled.Pinned {
		t.Fatalf("toggle-pin did not pin")
	}

	withPinned := decode[[]taskJSON](t, alice.expect(http.StatusOK, http.MethodGet, "/api/todos?date=2026-10-17", nil))
	if len(withPinned) != 2 {
		t.Fatalf("date list with pinned = %+v", withPinned)
	}
	onlyDay := decode[[]taskJSON](t, alice.expect(http.StatusOK, http.MethodGet, "/api/todos?date=2026-10-17&include_pinned=false", nil))
	if len(onlyDay) != 1 || onlyDay[0].ID != mine.ID {
		t.Fatalf("date-only list = %+v", onlyDay)
	}

	path := fmt.Sprintf("/api/todos/%d", mine.ID)
	bob.expect(http.StatusForbidden, http.MethodPut, path, map[string]any{"title": "mine now"})
	bob.expect(http.StatusForbidden, http.MethodDelete, path, nil)
	bob.expect(http.StatusForbidden, http.MethodPost, path+"/toggle-pin", nil)

	cat := decode[struct {
		ID int64 `json:"id"`
	}](t, alice.expect(http.StatusCreated, http.MethodPost, "/api/categories", map[string]string{"name": "Work", "color": "#abc"}))
	bob.expect(http.StatusForbidden, http.MethodPost, "/api/todos", map[string]any{"title": "x", "date": "2026-10-17", "category_id": cat.ID})
	bob.expect(http.StatusBadRequest, http.MethodPost, "/api/todos", map[string]any{"title": "x", "date": "2026-10-17", "category_id": 9999})

	updated := decode[taskJSON](t, alice.expect(http.StatusOK, http.MethodPut, path, map[string]any{"category_id": cat.ID}))
	if updated.CategoryID == nil || *updated.CategoryID != cat.ID || updated.Title != "today" {
		t.Fatalf("partial update = %+v", updated)
	}
	byCat := decode[[]taskJSON](t, alice.expect(http.StatusOK, http.MethodGet, fmt.Sprintf("/api/todos?category_id=%d", cat.ID), nil))
	if len(byCat) != 1 {
		t.Fatalf("category filter = %+v", byCat)
	}

	// deleting the category clears the reference
	env := alice.expect(http.StatusOK, http.MethodDelete, fmt.Sprintf("/api/categories/%d", cat.ID), nil)
	if string(env.Data) != `{"success":true}` {
		t.Fatalf("delete payload = %s", env.Data)
	}
	all := decode[[]taskJSON](t, alice.expect(http.StatusOK, http.MethodGet, "/api/todos", nil))
	for _, tk := range all {
		if tk.CategoryID != nil {
			t.Fatalf("category reference survived delete: %+v", tk)
		}
	}

	cleared := decode[taskJSON](t, alice.expect(http.StatusOK, http.MethodPut, path, map[string]any{"category_id": nil, "bogus": 1}))
	if cleared.CategoryID != nil {
		t.Fatalf("null category_id must clear: %+v", cleared)
	}
	alice.expect(http.StatusOK, http.MethodDelete, path, nil)
	alice.expect(http.StatusNotFound, http.MethodDelete, path, nil)
}

func TestFollowFeedAndNotifications(t *testing.T) {
	srv := newTestServer(t)
	alice, bob := newClient(t, srv), newClient(t, srv)
	a := alice.signUp("alice")
	b := bob.signUp("bob")

	cat := decode[struct {
		ID int64 `json:"id"`
	}](t, bob.expect(http.StatusCreated, http.MethodPost, "/api/categories", map[string]string{"name": "Gym", "color": "#2ecc71"}))
	bob.expect(http.StatusCreated, http.MethodPost, "/api/todos", map[string]any{"title": "public run", "date": "2026-10-17", "is_public": true, "category_id": cat.ID})
	bob.expect(http.StatusCreated, http.MethodPost, "/api/todos", map[string]any{"title": "private", "date": "2026-10-17"})

	if feed := decode[[]feedJSON](t, alice.expect(http.StatusOK, http.MethodGet, "/api/explore/todos", nil)); len(feed) != 0 {
		t.Fatalf("feed before follow = %+v", feed)
	}

	followPath := fmt.Sprintf("/api/users/%d/follow", b.ID)
	first := decode[map[string]bool](t, alice.expect(http.StatusOK, http.MethodPost, followPath, nil))
	again := decode[map[string]bool](t, alice.expect(http.StatusOK, http.MethodPost, followPath, nil))
	if !first["created"] || again["created"] || !again["following"] {
		t.Fatalf("follow results: %v then %v", first, again)
	}
	alice.expect(http.StatusNotFound, http.MethodPost, "/api/users/9999/follow", nil)
	alice.expect(http.StatusBadRequest, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", a.ID), nil)
	newClient(t, srv).expect(http.StatusUnauthorized, http.MethodPost, followPath, nil)

	feed := decode[[]feedJSON](t, alice.expect(http.StatusOK, http.MethodGet, "/api/explore/todos", nil))
	if len(feed) != 1 || feed[0].Title != "public run" || feed[0].User.Username != "bob" {
		t.Fatalf("feed = %+v", feed)
	}
	if feed[0].Category == nil || *feed[0].Category != "Gym" || *feed[0].CategoryColor != "#2ecc71" {
		t.Fatalf("feed category = %+v", feed[0])
	}

	followers := decode[[]userJSON](t, alice.expect(http.StatusOK, http.MethodGet, fmt.Sprintf("/api/users/%d/followers", b.ID), nil))
	if len(followers) != 1 || followers[0].ID != a.ID {
		t.Fatalf("followers = %+v", followers)
	}
	explore := decode[struct {
		Following   []userJSON `json:"following"`
		Recommended []userJSON `json:"recommended"`
	}](t, alice.expect(http.StatusOK, http.MethodGet, "/api/explore/users", nil))
	if len(explore.Following) != 1 || len(explore.Recommended) != 0 {
		t.Fatalf("explore = %+v", explore)
	}

	// exactly one notification despite the repeated follow
	env := bob.expect(http.StatusOK, http.MethodGet, "/api/notifications", nil)
	ns := decode[[]notificationJSON](t, env)
	if len(ns) != 1 || ns[0].Type != "follow" || ns[0].Read || ns[0].Sender == nil || ns[0].Sender.ID != a.ID {
		t.Fatalf("notifications = %+v", ns)
	}
	if env.Meta["unread"] != float64(1) {
		t.Fatalf("unread meta = %v", env.Meta)
	}
	alice.expect(http.StatusForbidden, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", ns[0].ID), nil)
	read := decode[notificationJSON](t, bob.expect(http.StatusOK, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", ns[0].ID), nil))
	if !read.Read {
		t.Fatalf("notification not marked read")
	}
	bob.expect(http.StatusOK, http.MethodPost, "/api/notifications/read", map[string]any{"notification_ids": []int64{ns[0].ID, 9999}})
	bob.expect(http.StatusBadRequest, http.MethodPost, "/api/notifications/read", map[string]any{})
	bob.expect(http.StatusOK, http.MethodPost, "/api/notifications/clear", nil)
	if left := decode[[]notificationJSON](t, bob.expect(http.StatusOK, http.MethodGet, "/api/notifications", nil)); len(left) != 0 {
		t.Fatalf("notifications after clear = %+v", left)
	}

	// guests get empty feed and notifications
	anon := newClient(t, srv)
	if got := string(anon.expect(http.StatusOK, http.MethodGet, "/api/explore/todos", nil).Data); got != "[]" {
		t.Fatalf("anonymous feed = %s", got)
	}
	if got := string(anon.expect(http.StatusOK, http.MethodGet, "/api/notifications", nil).Data); got != "[]" {
		t.Fatalf("anonymous notifications = %s", got)
	}

	alice.expect(http.StatusOK, http.MethodPost, fmt.Sprintf("/api/users/%d/unfollow", b.ID), nil)
	if feed := decode[[]feedJSON](t, alice.expect(http.StatusOK, http.MethodGet, "/api/explore/todos", nil)); len(feed) != 0 {
		t.Fatalf("feed after unfollow = %+v", feed)
	}
}

func TestDeleteAccount(t *testing.T) {
	srv := newTestServer(t)
	alice, bob := newClient(t, srv), newClient(t, srv)
	a := alice.signUp("alice")
	b := bob.signUp("bob")

	alice.expect(http.StatusOK, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", b.ID), nil)
	alice.expect(http.StatusCreated, http.MethodPost, "/api/todos", map[string]any{"title": "bye", "date": "2026-10-17"})

	alice.expect(http.StatusOK, http.MethodDelete, "/api/profile", nil)
	alice.expect(http.StatusUnauthorized, http.MethodGet, "/api/profile", nil)

	ns := decode[[]notificationJSON](t, bob.expect(http.StatusOK, http.MethodGet, "/api/notifications", nil))
	if len(ns) != 1 || ns[0].Sender != nil {
		t.Fatalf("sent notification must survive with null sender: %+v", ns)
	}
	p := decode[userJSON](t, bob.expect(http.StatusOK, http.MethodGet, "/api/profile", nil))
	if *p.FollowersCount != 0 {
		t.Fatalf("follow edge of deleted user survived: %+v", p)
	}
	bob.expect(http.StatusNotFound, http.MethodGet, fmt.Sprintf("/api/users/%d/followers", a.ID), nil)
}

func TestDebugMetrics(t *testing.T) {
	srv := newTestServer(t)
	newClient(t, srv).expect(http.StatusOK, http.MethodGet, "/api/todos", nil)

	resp, err := http.Get(srv.URL + "/api/debug/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "http_requests_total") {
		t.Fatalf("metrics status %d", resp.StatusCode)
	}
}

func TestHealthAndUnknownRoute(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	env := c.expect(http.StatusOK, http.MethodGet, "/api/health", nil)
	if got := decode[map[string]string](t, env); got["status"] != "ok" {
		t.Fatalf("health = %v", got)
	}
	env = c.expect(http.StatusNotFound, http.MethodGet, "/api/nope", nil)
	if env.Success || env.Error != "route not found" {
		t.Fatalf("unexpected 404 envelope: %+v", env)
	}
}

func TestRegistryMountsOnce(t *testing.T) {
	engine := gin.New()
	reg := NewRegistry(engine, "/api")
	calls := 0
	reg.Use(func(c *gin.Context) { c.Header("X-Group", "api"); c.Next() })
	reg.Add(ModuleFunc(func(rg *gin.RouterGroup) {
		calls++
		rg.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}))
	reg.RegisterAll()
	reg.RegisterAll()
	if calls != 1 {
		t.Fatalf("module registered %d times", calls)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	if w.Code != http.StatusNoContent || w.Header().Get("X-Group") != "api" {
		t.Fatalf("status %d, group header %q", w.Code, w.Header().Get("X-Group"))
	}
}
