package application

import (
	"context"
	"time"
)

// Session is the server-side record behind a pair of JWT cookies.
// A token is only valid while its sid matches SessionID.
type Session struct {
	UserID    int64
	SessionID string
	Username  string
	Nickname  string
}

// SessionStore keeps user and guest sessions. GetSession returns nil, nil when
// the session does not exist.
type SessionStore interface {
	SaveSession(ctx context.Context, s Session, ttl time.Duration) error
	GetSession(ctx context.Context, userID int64) (*Session, error)
	// UpdateSession overwrites fields of an existing session keeping its TTL.
	UpdateSession(ctx context.Context, userID int64, fields map[string]any) error
	DeleteSession(ctx context.Context, userID int64) error

	CreateGuest(ctx context.Context, guestID string, ttl time.Duration) error
	// TouchGuest slides the guest TTL forward and reports whether it was alive.
	TouchGuest(ctx context.Context, guestID string, ttl time.Duration) (bool, error)
	GuestAlive(ctx context.Context, guestID string) (bool, error)
	DeleteGuest(ctx context.Context, guestID string) error
}
