package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	"github.com/oksasatya/today-todo/internal/domain/repository"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// execer is satisfied by both the pool and a transaction.
type execer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertNotification(ctx context.Context, db execer, n *entity.Notification) error {
	return db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, sender_id, message, type, read)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, n.RecipientID, n.SenderID, n.Message, string(n.Type), n.Read).Scan(&n.ID, &n.CreatedAt)
}

// prefixed qualifies every column of a comma separated list with alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	return insertNotification(ctx, r.pool, n)
}

func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*entity.Notification, error) {
	n := &entity.Notification{}
	var typ string
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, sender_id, message, type, read, created_at
		FROM notifications WHERE id = $1
	`, id).Scan(&n.ID, &n.RecipientID, &n.SenderID, &n.Message, &typ, &n.Read, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	n.Type = entity.NotificationType(typ)
	return n, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID int64) ([]*entity.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT n.id, n.user_id, n.sender_id, n.message, n.type, n.read, n.created_at,
		       s.username, s.nickname, s.profile_image
		FROM notifications n
		LEFT JOIN users s ON s.id = n.sender_id
		WHERE n.user_id = $1
		ORDER BY n.created_at DESC, n.id DESC
	`, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Notification, 0)
	for rows.Next() {
		n := &entity.Notification{}
		var typ string
		var username, nickname, image *string
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.SenderID, &n.Message, &typ, &n.Read, &n.CreatedAt,
			&username, &nickname, &image); err != nil {
			return nil, err
		}
		n.Type = entity.NotificationType(typ)
		if n.SenderID != nil && username != nil {
			n.Sender = &entity.UserSummary{ID: *n.SenderID, Username: *username}
			if nickname != nil {
				n.Sender.Nickname = *nickname
			}
			if image != nil {
				n.Sender.ProfileImage = *image
			}
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND id = ANY($2)`, recipientID, ids)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	res, err := r.pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read`, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func (r *NotificationRepository) DeleteAll(ctx context.Context, recipientID int64) (int64, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
