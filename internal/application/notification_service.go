package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	repo "github.com/oksasatya/today-todo/internal/domain/repository"
)

type NotificationService struct {
	Notifications repo.NotificationRepository
}

func NewNotificationService(notifications repo.NotificationRepository) *NotificationService {
	return &NotificationService{Notifications: notifications}
}

// List returns the actor's notifications newest first; empty for non-users.
func (s *NotificationService) List(ctx context.Context, actor entity.Actor) ([]*entity.Notification, error) {
	if !actor.IsUser() {
		return []*entity.Notification{}, nil
	}
	out, err := s.Notifications.ListByRecipient(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, actor entity.Actor, id int64) (*entity.Notification, error) {
	userID, err := RequireUser(actor)
	if err != nil {
		return nil, err
	}
	n, err := s.Notifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("get notification %d: %w", id, err)
	}
	if n.RecipientID != userID {
		return nil, ErrForbidden
	}
	if _, err := s.Notifications.MarkRead(ctx, userID, []int64{id}); err != nil {
		return nil, fmt.Errorf("mark notification %d read: %w", id, err)
	}
	n.Read = true
	return n, nil
}

// MarkManyRead marks the given ids read, silently skipping ids the actor does not own.
func (s *NotificationService) MarkManyRead(ctx context.Context, actor entity.Actor, ids []int64) (int64, error) {
	userID, err := RequireUser(actor)
	if err != nil {
		return 0, err
	}
	return s.Notifications.MarkRead(ctx, userID, ids)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor entity.Actor) (int64, error) {
	userID, err := RequireUser(actor)
	if err != nil {
		return 0, err
	}
	return s.Notifications.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Clear(ctx context.Context, actor entity.Actor) (int64, error) {
	userID, err := RequireUser(actor)
	if err != nil {
		return 0, err
	}
	return s.Notifications.DeleteAll(ctx, userID)
}
