package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	"github.com/oksasatya/today-todo/internal/domain/repository"
)

const categoryColumns = `id, user_id, guest_id::text, name, color, created_at`

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	c := &entity.Category{}
	var userID *int64
	var guestID *string
	if err := row.Scan(&c.ID, &userID, &guestID, &c.Name, &c.Color, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	c.Owner = ownerFrom(userID, guestID)
	return c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	userID, guestID := ownerArgs(c.Owner)
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (user_id, guest_id, name, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, userID, guestID, c.Name, c.Color)
	return row.Scan(&c.ID, &c.CreatedAt)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
}

func (r *CategoryRepository) List(ctx context.Context, owner entity.Owner) ([]*entity.Category, error) {
	cond, arg := ownerCond("", owner, 1)
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE `+cond+` ORDER BY id`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, c *entity.Category) error {
	res, err := r.pool.Exec(ctx, `UPDATE categories SET name = $1, color = $2 WHERE id = $3`, c.Name, c.Color, c.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, c *entity.Category) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		cond, arg := ownerCond("", c.Owner, 2)
		if _, err := tx.Exec(ctx,
			`UPDATE todos SET category_id = NULL, updated_at = now() WHERE category_id = $1 AND `+cond,
			c.ID, arg); err != nil {
			return fmt.Errorf("clear category %d on tasks: %w", c.ID, err)
		}
		res, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, c.ID)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)
