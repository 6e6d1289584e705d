package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	"github.com/oksasatya/today-todo/internal/domain/repository"
)

// UserRepository handles users and their owner-delete cascade.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func mapUniqueViolation(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return err
	}
	switch {
	case strings.Contains(msg, "users.username"):
		return repository.ErrDuplicateUsername
	case strings.Contains(msg, "users.email"):
		return repository.ErrDuplicateEmail
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	return err
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.ProfileImage == "" {
		u.ProfileImage = entity.DefaultProfileImage
	}
	m := userModel{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.Password,
		Nickname:     u.Nickname,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return mapUniqueViolation(err)
	}
	u.ID = m.ID
	u.CreatedAt = m.CreatedAt
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.toEntity(), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.toEntity(), nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", u.ID).Updates(map[string]any{
		"password_hash": u.Password,
		"nickname":      u.Nickname,
		"bio":           u.Bio,
		"profile_image": u.ProfileImage,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&taskModel{}).Error; err != nil {
			return fmt.Errorf("delete tasks of user %d: %w", id, err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&categoryModel{}).Error; err != nil {
			return fmt.Errorf("delete categories of user %d: %w", id, err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&notificationModel{}).Error; err != nil {
			return fmt.Errorf("delete notifications of user %d: %w", id, err)
		}
		if err := tx.Model(&notificationModel{}).Where("sender_id = ?", id).Update("sender_id", nil).Error; err != nil {
			return fmt.Errorf("clear sender %d: %w", id, err)
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&followerModel{}).Error; err != nil {
			return fmt.Errorf("delete follow edges of user %d: %w", id, err)
		}
		res := tx.Delete(&userModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *UserRepository) ListExcluding(ctx context.Context, exclude []int64, limit int) ([]*entity.User, error) {
	q := r.db.WithContext(ctx).Order("id").Limit(limit)
	if len(exclude) > 0 {
		q = q.Where("id NOT IN ?", exclude)
	}
	var models []userModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	return usersFrom(models), nil
}

func usersFrom(models []userModel) []*entity.User {
	out := make([]*entity.User, 0, len(models))
	for i := range models {
		out = append(out, models[i].toEntity())
	}
	return out
}

var _ repository.UserRepository = (*UserRepository)(nil)
