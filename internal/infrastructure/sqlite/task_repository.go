package sqlite

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	"github.com/oksasatya/today-todo/internal/domain/repository"
)

// TaskRepository handles CRUD for tasks and the follow feed.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	m := taskModelFrom(t)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	t.ID = m.ID
	t.CreatedAt = m.CreatedAt
	t.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*entity.Task, error) {
	var m taskModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.toEntity()
}

func (r *TaskRepository) List(ctx context.Context, owner entity.Owner, f entity.TaskFilter) ([]*entity.Task, error) {
	cond, arg := ownerWhere(owner)
	q := r.db.WithContext(ctx).Where(cond, arg)
	if f.Date != nil {
		day := f.Date.Format(entity.DateLayout)
		if f.IncludePinned {
			q = q.Where("(date = ? OR pinned = ?)", day, true)
		} else {
			q = q.Where("date = ?", day)
		}
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}

	var models []taskModel
	if err := q.Order("date, id").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.Task, 0, len(models))
	for i := range models {
		t, err := models[i].toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	t.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&taskModel{}).Where("id = ?", t.ID).Updates(map[string]any{
		"category_id": t.CategoryID,
		"title":       t.Title,
		"description": t.Description,
		"date":        t.DateString(),
		"completed":   t.Completed,
		"pinned":      t.Pinned,
		"is_public":   t.IsPublic,
		"updated_at":  t.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&taskModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type feedRow struct {
	taskModel
	OwnerUsername     string
	OwnerNickname     string
	OwnerProfileImage string
	CategoryName      *string
	CategoryColor     *string
}

func (r *TaskRepository) Feed(ctx context.Context, followerID int64) ([]*entity.FeedItem, error) {
	var rows []feedRow
	err := r.db.WithContext(ctx).
		Table("todos AS t").
		Select(`t.*, u.username AS owner_username, u.nickname AS owner_nickname,
			u.profile_image AS owner_profile_image, c.name AS category_name, c.color AS category_color`).
		Joins("JOIN followers f ON f.followed_id = t.user_id").
		Joins("JOIN users u ON u.id = t.user_id").
		Joins("LEFT JOIN categories c ON c.id = t.category_id").
		Where("f.follower_id = ? AND t.is_public = ?", followerID, true).
		Order("t.created_at DESC, t.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.FeedItem, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		t, err := row.taskModel.toEntity()
		if err != nil {
			return nil, err
		}
		item := &entity.FeedItem{
			Task: *t,
			User: entity.UserSummary{
				ID:           *row.UserID,
				Username:     row.OwnerUsername,
				Nickname:     row.OwnerNickname,
				ProfileImage: row.OwnerProfileImage,
			},
		}
		if row.CategoryName != nil {
			item.Category = &entity.CategorySummary{Name: *row.CategoryName}
			if row.CategoryColor != nil {
				item.Category.Color = *row.CategoryColor
			}
		}
		out = append(out, item)
	}
	return out, nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
