package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	repo "github.com/oksasatya/today-todo/internal/domain/repository"
	"github.com/oksasatya/today-todo/pkg/mailer"
)

const recommendedUsersLimit = 10

// EventPublisher puts JSON events on the follow notification queue.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type SocialService struct {
	Users   repo.UserRepository
	Follows repo.FollowRepository
	Tasks   repo.TaskRepository
	Events  EventPublisher
	Logger  *logrus.Logger
}

func NewSocialService(users repo.UserRepository, follows repo.FollowRepository, tasks repo.TaskRepository, events EventPublisher, logger *logrus.Logger) *SocialService {
	return &SocialService{Users: users, Follows: follows, Tasks: tasks, Events: events, Logger: logger}
}

// ExploreUsers lists who the user follows and a few users they do not follow yet.
type ExploreUsers struct {
	Following   []entity.UserSummary `json:"following"`
	Recommended []entity.UserSummary `json:"recommended"`
}

func FollowMessage(follower *entity.User) string {
	return fmt.Sprintf("%s started following you.", follower.DisplayName())
}

// Follow creates the edge actor -> targetID. Following twice is a no-op; only the
// first follow notifies. created reports whether a new edge was stored.
func (s *SocialService) Follow(ctx context.Context, actor entity.Actor, targetID int64) (bool, error) {
	followerID, err := RequireUser(actor)
	if err != nil {
		return false, err
	}
	if followerID == targetID {
		return false, ErrSelfFollow
	}
	follower, err := s.user(ctx, followerID)
	if err != nil {
		return false, err
	}
	target, err := s.user(ctx, targetID)
	if err != nil {
		return false, err
	}

	n := &entity.Notification{
		RecipientID: target.ID,
		SenderID:    &follower.ID,
		Message:     FollowMessage(follower),
		Type:        entity.NotificationFollow,
	}
	created, err := s.Follows.Follow(ctx, follower.ID, target.ID, n)
	if err != nil {
		return false, fmt.Errorf("follow %d -> %d: %w", follower.ID, target.ID, err)
	}
	if created {
		s.publishFollow(ctx, follower, target, n.Message)
	}
	return created, nil
}

func (s *SocialService) publishFollow(ctx context.Context, follower, target *entity.User, message string) {
	if s.Events == nil {
		return
	}
	ev := mailer.FollowEvent{
		RecipientID:    target.ID,
		RecipientEmail: target.Email,
		RecipientName:  target.DisplayName(),
		FollowerID:     follower.ID,
		FollowerName:   follower.DisplayName(),
		Message:        message,
	}
	if err := s.Events.PublishJSON(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"follower_id": follower.ID,
			"followed_id": target.ID,
		}).Warn("publish follow event failed")
	}
}

// Unfollow removes the edge if present.
func (s *SocialService) Unfollow(ctx context.Context, actor entity.Actor, targetID int64) error {
	followerID, err := RequireUser(actor)
	if err != nil {
		return err
	}
	if _, err := s.user(ctx, targetID); err != nil {
		return err
	}
	if err := s.Follows.Unfollow(ctx, followerID, targetID); err != nil {
		return fmt.Errorf("unfollow %d -> %d: %w", followerID, targetID, err)
	}
	return nil
}

func (s *SocialService) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	return s.Follows.IsFollowing(ctx, followerID, followedID)
}

func (s *SocialService) Followers(ctx context.Context, userID int64) ([]entity.UserSummary, error) {
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.Follows.Followers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("followers of %d: %w", userID, err)
	}
	return summaries(users), nil
}

func (s *SocialService) Following(ctx context.Context, userID int64) ([]entity.UserSummary, error) {
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.Follows.Following(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("following of %d: %w", userID, err)
	}
	return summaries(users), nil
}

func (s *SocialService) ExploreUsers(ctx context.Context, actor entity.Actor) (*ExploreUsers, error) {
	out := &ExploreUsers{Following: []entity.UserSummary{}, Recommended: []entity.UserSummary{}}
	if !actor.IsUser() {
		return out, nil
	}
	following, err := s.Follows.Following(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("following of %d: %w", actor.UserID, err)
	}
	exclude := make([]int64, 0, len(following)+1)
	exclude = append(exclude, actor.UserID)
	for _, u := range following {
		exclude = append(exclude, u.ID)
	}
	recommended, err := s.Users.ListExcluding(ctx, exclude, recommendedUsersLimit)
	if err != nil {
		return nil, fmt.Errorf("recommend users: %w", err)
	}
	out.Following = summaries(following)
	out.Recommended = summaries(recommended)
	return out, nil
}

// Feed returns public tasks of followed users, newest first. Actors without an
// account get an empty feed.
func (s *SocialService) Feed(ctx context.Context, actor entity.Actor) ([]*entity.FeedItem, error) {
	if !actor.IsUser() {
		return []*entity.FeedItem{}, nil
	}
	items, err := s.Tasks.Feed(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("feed for %d: %w", actor.UserID, err)
	}
	return items, nil
}

func (s *SocialService) user(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func summaries(users []*entity.User) []entity.UserSummary {
	out := make([]entity.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out
}
