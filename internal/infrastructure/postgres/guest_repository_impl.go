package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/today-todo/internal/domain/repository"
)

type GuestRepository struct {
	pool *pgxpool.Pool
}

func NewGuestRepository(pool *pgxpool.Pool) *GuestRepository {
	return &GuestRepository{pool: pool}
}

func (r *GuestRepository) Adopt(ctx context.Context, guestID string, userID int64) (int64, int64, error) {
	var tasks, categories int64
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		res, err := tx.Exec(ctx, `UPDATE categories SET user_id = $1, guest_id = NULL WHERE guest_id = $2`, userID, guestID)
		if err != nil {
			return err
		}
		categories = res.RowsAffected()
		res, err = tx.Exec(ctx, `
			UPDATE todos SET user_id = $1, guest_id = NULL, updated_at = now() WHERE guest_id = $2
		`, userID, guestID)
		if err != nil {
			return err
		}
		tasks = res.RowsAffected()
		return nil
	})
	return tasks, categories, err
}

func (r *GuestRepository) GuestIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT guest_id::text FROM todos WHERE guest_id IS NOT NULL
		UNION
		SELECT guest_id::text FROM categories WHERE guest_id IS NOT NULL
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *GuestRepository) Purge(ctx context.Context, guestID string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM todos WHERE guest_id = $1`, guestID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM categories WHERE guest_id = $1`, guestID)
		return err
	})
}

var _ repository.GuestRepository = (*GuestRepository)(nil)
