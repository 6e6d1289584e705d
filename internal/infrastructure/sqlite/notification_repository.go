package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	"github.com/oksasatya/today-todo/internal/domain/repository"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func createNotification(db *gorm.DB, n *entity.Notification) error {
	m := notificationModel{
		UserID:   n.RecipientID,
		SenderID: n.SenderID,
		Message:  n.Message,
		Type:     string(n.Type),
		Read:     n.Read,
	}
	if err := db.Create(&m).Error; err != nil {
		return err
	}
	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	return nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	return createNotification(r.db.WithContext(ctx), n)
}

func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*entity.Notification, error) {
	var m notificationModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.toEntity(), nil
}

type notificationRow struct {
	notificationModel
	SenderUsername     *string
	SenderNickname     *string
	SenderProfileImage *string
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID int64) ([]*entity.Notification, error) {
	var rows []notificationRow
	err := r.db.WithContext(ctx).
		Table("notifications AS n").
		Select(`n.*, s.username AS sender_username, s.nickname AS sender_nickname,
			s.profile_image AS sender_profile_image`).
		Joins("LEFT JOIN users s ON s.id = n.sender_id").
		Where("n.user_id = ?", recipientID).
		Order("n.created_at DESC, n.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.Notification, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		n := row.notificationModel.toEntity()
		if n.SenderID != nil && row.SenderUsername != nil {
			n.Sender = &entity.UserSummary{ID: *n.SenderID, Username: *row.SenderUsername}
			if row.SenderNickname != nil {
				n.Sender.Nickname = *row.SenderNickname
			}
			if row.SenderProfileImage != nil {
				n.Sender.ProfileImage = *row.SenderProfileImage
			}
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("user_id = ? AND id IN ?", recipientID, ids).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("user_id = ? AND read = ?", recipientID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) DeleteAll(ctx context.Context, recipientID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", recipientID).Delete(&notificationModel{})
	return res.RowsAffected, res.Error
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
