package sqlite

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oksasatya/today-todo/internal/domain/repository"
)

type GuestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

func (r *GuestRepository) Adopt(ctx context.Context, guestID string, userID int64) (int64, int64, error) {
	var tasks, categories int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&categoryModel{}).Where("guest_id = ?", guestID).
			Updates(map[string]any{"user_id": userID, "guest_id": nil})
		if res.Error != nil {
			return res.Error
		}
		categories = res.RowsAffected
		res = tx.Model(&taskModel{}).Where("guest_id = ?", guestID).
			Updates(map[string]any{"user_id": userID, "guest_id": nil, "updated_at": time.Now().UTC()})
		if res.Error != nil {
			return res.Error
		}
		tasks = res.RowsAffected
		return nil
	})
	return tasks, categories, err
}

func (r *GuestRepository) GuestIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT guest_id FROM todos WHERE guest_id IS NOT NULL
		UNION
		SELECT guest_id FROM categories WHERE guest_id IS NOT NULL
	`).Scan(&ids).Error
	return ids, err
}

func (r *GuestRepository) Purge(ctx context.Context, guestID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guest_id = ?", guestID).Delete(&taskModel{}).Error; err != nil {
			return err
		}
		return tx.Where("guest_id = ?", guestID).Delete(&categoryModel{}).Error
	})
}

var _ repository.GuestRepository = (*GuestRepository)(nil)
