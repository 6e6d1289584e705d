package redisstore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/today-todo/internal/application"
)

// SessionStore keeps user sessions as hashes and guest sessions as plain keys.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func sessionKey(userID int64) string {
	return "user:session:" + strconv.FormatInt(userID, 10)
}

func guestKey(guestID string) string {
	return "guest:session:" + guestID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (s *SessionStore) SaveSession(ctx context.Context, sess application.Session, ttl time.Duration) error {
	key := sessionKey(sess.UserID)
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    sess.UserID,
		"username":   sess.Username,
		"nickname":   sess.Nickname,
		"sid":        sess.SessionID,
		"logged_in":  true,
		"created_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) GetSession(ctx context.Context, userID int64) (*application.Session, error) {
	data, err := s.rdb.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || data["sid"] == "" {
		return nil, nil
	}
	return &application.Session{
		UserID:    userID,
		SessionID: data["sid"],
		Username:  data["username"],
		Nickname:  data["nickname"],
	}, nil
}

// UpdateSession rewrites fields and re-applies the remaining TTL.
func (s *SessionStore) UpdateSession(ctx context.Context, userID int64, fields map[string]any) error {
	key := sessionKey(userID)
	ttl, err := s.rdb.TTL(ctx, key).Result()
	if err != nil {
		return err
	}
	if ttl <= 0 {
		// expired or missing; nothing to update
		return nil
	}
	values := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	values["updated_at"] = nowRFC3339()

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, values)
	pipe.Expire(ctx, key, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *SessionStore) DeleteSession(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}

func (s *SessionStore) CreateGuest(ctx context.Context, guestID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, guestKey(guestID), nowRFC3339(), ttl).Err()
}

func (s *SessionStore) TouchGuest(ctx context.Context, guestID string, ttl time.Duration) (bool, error) {
	return s.rdb.Expire(ctx, guestKey(guestID), ttl).Result()
}

func (s *SessionStore) GuestAlive(ctx context.Context, guestID string) (bool, error) {
	_, err := s.rdb.Get(ctx, guestKey(guestID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SessionStore) DeleteGuest(ctx context.Context, guestID string) error {
	return s.rdb.Del(ctx, guestKey(guestID)).Err()
}

var _ application.SessionStore = (*SessionStore)(nil)
