package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	"github.com/oksasatya/today-todo/internal/infrastructure/sqlite"
	"github.com/oksasatya/today-todo/pkg/helpers"
)

// memSessions is an in-memory SessionStore. Expired guests are simulated by
// deleting them from the map.
type memSessions struct {
	mu       sync.Mutex
	sessions map[int64]Session
	guests   map[string]time.Time
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: map[int64]Session{}, guests: map[string]time.Time{}}
}

func (m *memSessions) SaveSession(_ context.Context, s Session, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID] = s
	return nil
}

func (m *memSessions) GetSession(_ context.Context, userID int64) (*Session, error) {
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

func (m *memSessions) CreateGuest(_ context.Context, guestID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guests[guestID] = time.Now().Add(ttl)
	return nil
}

func (m *memSessions) TouchGuest(_ context.Context, guestID string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.guests[guestID]; !ok {
		return false, nil
	}
	m.guests[guestID] = time.Now().Add(ttl)
	return true, nil
}

func (m *memSessions) GuestAlive(_ context.Context, guestID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.guests[guestID]
	return ok, nil
}

func (m *memSessions) DeleteGuest(_ context.Context, guestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.guests, guestID)
	return nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, body)
	return nil
}

type testEnv struct {
	users         *UserService
	identity      *IdentityService
	tasks         *TaskService
	categories    *CategoryService
	social        *SocialService
	notifications *NotificationService
	sessions      *memSessions
	events        *recordingPublisher
	jwt           *helpers.JWTManager
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sqlite.NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log := quietLogger()
	userRepo := sqlite.NewUserRepository(db)
	followRepo := sqlite.NewFollowRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	categoryRepo := sqlite.NewCategoryRepository(db)
	notificationRepo := sqlite.NewNotificationRepository(db)
	guestRepo := sqlite.NewGuestRepository(db)

	sessions := newMemSessions()
	events := &recordingPublisher{}
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	return &testEnv{
		users:         NewUserService(userRepo, followRepo, sessions, jwt, time.Hour, log),
		identity:      NewIdentityService(jwt, sessions, guestRepo, time.Hour, log),
		tasks:         NewTaskService(taskRepo, categoryRepo, log),
		categories:    NewCategoryService(categoryRepo, log),
		social:        NewSocialService(userRepo, followRepo, taskRepo, events, log),
		notifications: NewNotificationService(notificationRepo),
		sessions:      sessions,
		events:        events,
		jwt:           jwt,
	}
}

func (e *testEnv) register(t *testing.T, username string) entity.Actor {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return entity.UserActor(u.ID)
}

func (e *testEnv) guest(t *testing.T) entity.Actor {
	t.Helper()
	g, err := e.identity.NewGuest(context.Background())
	if err != nil {
		t.Fatalf("new guest: %v", err)
	}
	return g
}

func (e *testEnv) task(t *testing.T, actor entity.Actor, in CreateTaskInput) *entity.Task {
	t.Helper()
	task, err := e.tasks.Create(context.Background(), actor, in)
	if err != nil {
		t.Fatalf("create task %q: %v", in.Title, err)
	}
	return task
}

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

func wantValidation(t *testing.T, err error, field string) {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want validation error on %s", err, field)
	}
	if ve.Field != field {
		t.Fatalf("validation field = %s, want %s", ve.Field, field)
	}
}

func titles(tasks []*entity.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func int64Ptr(v int64) *int64 { return &v }
