package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/today-todo/internal/domain/entity"
)

// Storage-level errors shared by every repository implementation.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// Delete removes the user and everything the user owns in one transaction:
	// tasks, categories, notifications received and follow edges. Notifications
	// the user sent to others keep existing with a cleared sender.
	Delete(ctx context.Context, id int64) error
	// ListExcluding returns up to limit users whose ids are not in exclude.
	ListExcluding(ctx context.Context, exclude []int64, limit int) ([]*entity.User, error)
}

// FollowRepository manages the directed follower -> followed graph.
type FollowRepository interface {
	// Follow inserts the edge and the notification for the followed user in one
	// transaction. created is false when the edge already existed, in which case
	// no notification is stored.
	Follow(ctx context.Context, followerID, followedID int64, n *entity.Notification) (created bool, err error)
	Unfollow(ctx context.Context, followerID, followedID int64) error
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
	Followers(ctx context.Context, userID int64) ([]*entity.User, error)
	Following(ctx context.Context, userID int64) ([]*entity.User, error)
	Counts(ctx context.Context, userID int64) (followers, following int, err error)
}
