package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	repo "github.com/oksasatya/today-todo/internal/domain/repository"
	"github.com/oksasatya/today-todo/pkg/helpers"
)

// IdentityService maps request credentials onto an Actor and manages guest identities.
type IdentityService struct {
	JWT      *helpers.JWTManager
	Sessions SessionStore
	Guests   repo.GuestRepository
	GuestTTL time.Duration
	Logger   *logrus.Logger
}

func NewIdentityService(jwt *helpers.JWTManager, sessions SessionStore, guests repo.GuestRepository, guestTTL time.Duration, logger *logrus.Logger) *IdentityService {
	if guestTTL <= 0 {
		guestTTL = 7 * 24 * time.Hour
	}
	return &IdentityService{JWT: jwt, Sessions: sessions, Guests: guests, GuestTTL: guestTTL, Logger: logger}
}

// Resolve returns a user actor for a valid access token backed by a live session,
// otherwise a guest actor for a live guest session, otherwise ActorNone.
// A resolved guest session has its TTL refreshed.
func (s *IdentityService) Resolve(ctx context.Context, accessToken, guestID string) entity.Actor {
	if accessToken != "" {
		if actor, ok := s.resolveUser(ctx, accessToken); ok {
			return actor
		}
	}
	if guestID != "" {
		if _, err := uuid.Parse(guestID); err != nil {
			return entity.Actor{}
		}
		alive, err := s.Sessions.TouchGuest(ctx, guestID, s.GuestTTL)
		if err != nil {
			s.warn(err, "touch guest session failed", logrus.Fields{"guest_id": guestID})
			return entity.Actor{}
		}
		if alive {
			return entity.GuestActor(guestID)
		}
	}
	return entity.Actor{}
}

func (s *IdentityService) resolveUser(ctx context.Context, accessToken string) (entity.Actor, bool) {
	claims, err := s.JWT.ParseAccessToken(accessToken)
	if err != nil {
		return entity.Actor{}, false
	}
	sess, err := s.Sessions.GetSession(ctx, claims.UserID)
	if err != nil {
		s.warn(err, "load session failed", logrus.Fields{"user_id": claims.UserID})
		return entity.Actor{}, false
	}
	if sess == nil || sess.SessionID != claims.SessionID {
		return entity.Actor{}, false
	}
	return entity.UserActor(claims.UserID), true
}

// NewGuest starts a fresh guest session.
func (s *IdentityService) NewGuest(ctx context.Context) (entity.Actor, error) {
	id := uuid.NewString()
	if err := s.Sessions.CreateGuest(ctx, id, s.GuestTTL); err != nil {
		return entity.Actor{}, fmt.Errorf("create guest session: %w", err)
	}
	return entity.GuestActor(id), nil
}

// MergeGuest hands the guest's tasks and categories to userID and ends the guest session.
func (s *IdentityService) MergeGuest(ctx context.Context, guestID string, userID int64) error {
	if guestID == "" {
		return nil
	}
	tasks, categories, err := s.Guests.Adopt(ctx, guestID, userID)
	if err != nil {
		return fmt.Errorf("adopt guest %s: %w", guestID, err)
	}
	if err := s.Sessions.DeleteGuest(ctx, guestID); err != nil {
		s.warn(err, "delete guest session failed", logrus.Fields{"guest_id": guestID})
	}
	if s.Logger != nil && (tasks > 0 || categories > 0) {
		s.Logger.WithFields(logrus.Fields{
			"guest_id":   guestID,
			"user_id":    userID,
			"tasks":      tasks,
			"categories": categories,
		}).Info("guest data merged into account")
	}
	return nil
}

// PurgeExpiredGuests deletes data of every guest whose session is gone.
// It returns how many guests were purged.
func (s *IdentityService) PurgeExpiredGuests(ctx context.Context) (int, error) {
	ids, err := s.Guests.GuestIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list guest ids: %w", err)
	}
	purged := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return purged, err
		}
		alive, err := s.Sessions.GuestAlive(ctx, id)
		if err != nil {
			return purged, fmt.Errorf("check guest %s: %w", id, err)
		}
		if alive {
			continue
		}
		if err := s.Guests.Purge(ctx, id); err != nil {
			return purged, fmt.Errorf("purge guest %s: %w", id, err)
		}
		purged++
	}
	return purged, nil
}

func (s *IdentityService) warn(err error, msg string, fields logrus.Fields) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithError(err).WithFields(fields).Warn(msg)
}
