package repository

import (
	"context"

	"github.com/oksasatya/today-todo/internal/domain/entity"
)

type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, id int64) (*entity.Task, error)
	List(ctx context.Context, owner entity.Owner, f entity.TaskFilter) ([]*entity.Task, error)
	// Update persists every mutable field and refreshes UpdatedAt.
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id int64) error
	// Feed returns public tasks owned by users that followerID follows,
	// newest first.
	Feed(ctx context.Context, followerID int64) ([]*entity.FeedItem, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	List(ctx context.Context, owner entity.Owner) ([]*entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	// Delete clears the category reference on the owner's tasks and removes the
	// category atomically. Tasks are never deleted here.
	Delete(ctx context.Context, c *entity.Category) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	GetByID(ctx context.Context, id int64) (*entity.Notification, error)
	// ListByRecipient returns notifications newest first with Sender filled.
	ListByRecipient(ctx context.Context, recipientID int64) ([]*entity.Notification, error)
	// MarkRead flags the given ids as read, skipping ids not owned by recipientID.
	MarkRead(ctx context.Context, recipientID int64, ids []int64) (int64, error)
	MarkAllRead(ctx context.Context, recipientID int64) (int64, error)
	DeleteAll(ctx context.Context, recipientID int64) (int64, error)
}

// GuestRepository handles data owned by anonymous session identities.
type GuestRepository interface {
	// Adopt moves tasks and categories owned by guestID to userID.
	Adopt(ctx context.Context, guestID string, userID int64) (tasks, categories int64, err error)
	// GuestIDs lists every guest id that owns at least one task or category.
	GuestIDs(ctx context.Context) ([]string, error)
	// Purge deletes all tasks and categories owned by guestID.
	Purge(ctx context.Context, guestID string) error
}
