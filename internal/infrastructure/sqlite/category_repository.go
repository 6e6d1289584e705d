package sqlite

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	"github.com/oksasatya/today-todo/internal/domain/repository"
)

// CategoryRepository manages task categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	userID, guestID := ownerColumns(c.Owner)
	m := categoryModel{UserID: userID, GuestID: guestID, Name: c.Name, Color: c.Color}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	c.ID = m.ID
	c.CreatedAt = m.CreatedAt
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	var m categoryModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.toEntity(), nil
}

func (r *CategoryRepository) List(ctx context.Context, owner entity.Owner) ([]*entity.Category, error) {
	cond, arg := ownerWhere(owner)
	var models []categoryModel
	if err := r.db.WithContext(ctx).Where(cond, arg).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.Category, 0, len(models))
	for i := range models {
		out = append(out, models[i].toEntity())
	}
	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *entity.Category) error {
	res := r.db.WithContext(ctx).Model(&categoryModel{}).Where("id = ?", c.ID).
		Updates(map[string]any{"name": c.Name, "color": c.Color})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, c *entity.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cond, arg := ownerWhere(c.Owner)
		if err := tx.Model(&taskModel{}).
			Where("category_id = ?", c.ID).
			Where(cond, arg).
			Updates(map[string]any{"category_id": nil, "updated_at": time.Now().UTC()}).Error; err != nil {
			return fmt.Errorf("clear category %d on tasks: %w", c.ID, err)
		}
		res := tx.Delete(&categoryModel{}, c.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)
