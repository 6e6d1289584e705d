package sqlite

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	"github.com/oksasatya/today-todo/internal/domain/repository"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Follow(ctx context.Context, followerID, followedID int64, n *entity.Notification) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&followerModel{FollowerID: followerID, FollowedID: followedID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		if n == nil {
			return nil
		}
		return createNotification(tx, n)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followedID int64) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&followerModel{}).Error
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&followerModel{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&n).Error
	return n > 0, err
}

func (r *FollowRepository) Followers(ctx context.Context, userID int64) ([]*entity.User, error) {
	var models []userModel
	err := r.db.WithContext(ctx).
		Joins("JOIN followers f ON f.follower_id = users.id").
		Where("f.followed_id = ?", userID).
		Order("users.id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return usersFrom(models), nil
}

func (r *FollowRepository) Following(ctx context.Context, userID int64) ([]*entity.User, error) {
	var models []userModel
	err := r.db.WithContext(ctx).
		Joins("JOIN followers f ON f.followed_id = users.id").
		Where("f.follower_id = ?", userID).
		Order("users.id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return usersFrom(models), nil
}

func (r *FollowRepository) Counts(ctx context.Context, userID int64) (int, int, error) {
	var followers, following int64
	if err := r.db.WithContext(ctx).Model(&followerModel{}).Where("followed_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&followerModel{}).Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return 0, 0, err
	}
	return int(followers), int(following), nil
}

var _ repository.FollowRepository = (*FollowRepository)(nil)
