package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	"github.com/oksasatya/today-todo/internal/domain/repository"
)

type FollowRepository struct {
	pool *pgxpool.Pool
}

func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

func (r *FollowRepository) Follow(ctx context.Context, followerID, followedID int64, n *entity.Notification) (bool, error) {
	created := false
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		res, err := tx.Exec(ctx, `
			INSERT INTO followers (follower_id, followed_id)
			VALUES ($1, $2)
			ON CONFLICT (follower_id, followed_id) DO NOTHING
		`, followerID, followedID)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return nil
		}
		created = true
		if n == nil {
			return nil
		}
		return insertNotification(ctx, tx, n)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followedID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM followers WHERE follower_id = $1 AND followed_id = $2`, followerID, followedID)
	return err
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM followers WHERE follower_id = $1 AND followed_id = $2)
	`, followerID, followedID).Scan(&exists)
	return exists, err
}

func (r *FollowRepository) Followers(ctx context.Context, userID int64) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+prefixed("u.", userColumns)+`
		FROM users u
		JOIN followers f ON f.follower_id = u.id
		WHERE f.followed_id = $1
		ORDER BY u.id
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (r *FollowRepository) Following(ctx context.Context, userID int64) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+prefixed("u.", userColumns)+`
		FROM users u
		JOIN followers f ON f.followed_id = u.id
		WHERE f.follower_id = $1
		ORDER BY u.id
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (r *FollowRepository) Counts(ctx context.Context, userID int64) (int, int, error) {
	var followers, following int
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM followers WHERE followed_id = $1),
			(SELECT count(*) FROM followers WHERE follower_id = $1)
	`, userID).Scan(&followers, &following)
	return followers, following, err
}

var _ repository.FollowRepository = (*FollowRepository)(nil)
