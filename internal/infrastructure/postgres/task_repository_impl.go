package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	"github.com/oksasatya/today-todo/internal/domain/repository"
)

const taskColumns = `t.id, t.user_id, t.guest_id::text, t.category_id, t.title, t.description, t.date,
	t.completed, t.pinned, t.is_public, t.created_at, t.updated_at`

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// ownerArgs splits an owner into the nullable user_id / guest_id column values.
func ownerArgs(o entity.Owner) (*int64, *string) {
	if o.UserID != 0 {
		id := o.UserID
		return &id, nil
	}
	gid := o.GuestID
	return nil, &gid
}

// ownerCond returns the WHERE fragment selecting rows of o, bound to placeholder n.
func ownerCond(alias string, o entity.Owner, n int) (string, any) {
	if o.UserID != 0 {
		return fmt.Sprintf("%suser_id = $%d", alias, n), o.UserID
	}
	return fmt.Sprintf("%sguest_id = $%d", alias, n), o.GuestID
}

func ownerFrom(userID *int64, guestID *string) entity.Owner {
	if userID != nil {
		return entity.UserOwner(*userID)
	}
	if guestID != nil {
		return entity.GuestOwner(*guestID)
	}
	return entity.Owner{}
}

func scanTask(row pgx.Row, extra ...any) (*entity.Task, error) {
	t := &entity.Task{}
	var userID *int64
	var guestID *string
	dest := []any{&t.ID, &userID, &guestID, &t.CategoryID, &t.Title, &t.Description, &t.Date,
		&t.Completed, &t.Pinned, &t.IsPublic, &t.CreatedAt, &t.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	t.Owner = ownerFrom(userID, guestID)
	return t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	userID, guestID := ownerArgs(t.Owner)
	row := r.pool.QueryRow(ctx, `
		INSERT INTO todos (user_id, guest_id, category_id, title, description, date, completed, pinned, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, userID, guestID, t.CategoryID, t.Title, t.Description, t.Date, t.Completed, t.Pinned, t.IsPublic)
	return row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*entity.Task, error) {
	return scanTask(r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM todos t WHERE t.id = $1`, id))
}

func (r *TaskRepository) List(ctx context.Context, owner entity.Owner, f entity.TaskFilter) ([]*entity.Task, error) {
	cond, arg := ownerCond("t.", owner, 1)
	where := []string{cond}
	args := []any{arg}

	if f.Date != nil {
		args = append(args, *f.Date)
		if f.IncludePinned {
			where = append(where, fmt.Sprintf("(t.date = $%d OR t.pinned)", len(args)))
		} else {
			where = append(where, fmt.Sprintf("t.date = $%d", len(args)))
		}
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where = append(where, fmt.Sprintf("t.category_id = $%d", len(args)))
	}

	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM todos t WHERE `+
		strings.Join(where, " AND ")+` ORDER BY t.date, t.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	t.UpdatedAt = time.Now().UTC()
	res, err := r.pool.Exec(ctx, `
		UPDATE todos
		SET category_id = $1, title = $2, description = $3, date = $4,
		    completed = $5, pinned = $6, is_public = $7, updated_at = $8
		WHERE id = $9
	`, t.CategoryID, t.Title, t.Description, t.Date, t.Completed, t.Pinned, t.IsPublic, t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Feed(ctx context.Context, followerID int64) ([]*entity.FeedItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`, u.id, u.username, u.nickname, u.profile_image, c.name, c.color
		FROM todos t
		JOIN followers f ON f.followed_id = t.user_id
		JOIN users u ON u.id = t.user_id
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE f.follower_id = $1 AND t.is_public
		ORDER BY t.created_at DESC, t.id DESC
	`, followerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.FeedItem, 0)
	for rows.Next() {
		var u entity.UserSummary
		var catName, catColor *string
		t, err := scanTask(rows, &u.ID, &u.Username, &u.Nickname, &u.ProfileImage, &catName, &catColor)
		if err != nil {
			return nil, err
		}
		item := &entity.FeedItem{Task: *t, User: u}
		if catName != nil {
			item.Category = &entity.CategorySummary{Name: *catName}
			if catColor != nil {
				item.Category.Color = *catColor
			}
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
