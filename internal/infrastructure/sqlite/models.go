package sqlite

import (
	"time"

	"github.com/oksasatya/today-todo/internal/domain/entity"
)

// Table names mirror db/migrations so both stores share one schema.

type userModel struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"size:64;not null;uniqueIndex:idx_users_username"`
	Email        string `gorm:"size:120;not null;uniqueIndex:idx_users_email"`
	PasswordHash string `gorm:"not null"`
	Nickname     string `gorm:"size:64;not null"`
	Bio          string `gorm:"size:200"`
	ProfileImage string `gorm:"size:255"`
	CreatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type followerModel struct {
	FollowerID int64 `gorm:"primaryKey;autoIncrement:false"`
	FollowedID int64 `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt  time.Time
}

func (followerModel) TableName() string { return "followers" }

type categoryModel struct {
	ID        int64   `gorm:"primaryKey"`
	UserID    *int64  `gorm:"index"`
	GuestID   *string `gorm:"size:36;index"`
	Name      string  `gorm:"size:50;not null"`
	Color     string  `gorm:"size:20;not null"`
	CreatedAt time.Time
}

func (categoryModel) TableName() string { return "categories" }

type taskModel struct {
	ID          int64   `gorm:"primaryKey"`
	UserID      *int64  `gorm:"index:idx_todos_user_date"`
	GuestID     *string `gorm:"size:36;index"`
	CategoryID  *int64  `gorm:"index"`
	Title       string  `gorm:"size:100;not null"`
	Description string  `gorm:"size:500"`
	Date        string  `gorm:"size:10;not null;index:idx_todos_user_date"`
	Completed   bool
	Pinned      bool
	IsPublic    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (taskModel) TableName() string { return "todos" }

type notificationModel struct {
	ID        int64  `gorm:"primaryKey"`
	UserID    int64  `gorm:"not null;index"`
	SenderID  *int64 `gorm:"index"`
	Message   string `gorm:"size:200;not null"`
	Type      string `gorm:"size:20;not null"`
	Read      bool
	CreatedAt time.Time
}

func (notificationModel) TableName() string { return "notifications" }

func ownerColumns(o entity.Owner) (*int64, *string) {
	if o.UserID != 0 {
		id := o.UserID
		return &id, nil
	}
	gid := o.GuestID
	return nil, &gid
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

// ownerWhere returns the condition and argument selecting rows owned by o.
func ownerWhere(o entity.Owner) (string, any) {
	if o.UserID != 0 {
		return "user_id = ?", o.UserID
	}
	return "guest_id = ?", o.GuestID
}

func (m *userModel) toEntity() *entity.User {
	return &entity.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		Password:     m.PasswordHash,
		Nickname:     m.Nickname,
		Bio:          m.Bio,
		ProfileImage: m.ProfileImage,
		CreatedAt:    m.CreatedAt,
	}
}

func (m *taskModel) toEntity() (*entity.Task, error) {
	date, err := entity.ParseDate(m.Date)
	if err != nil {
		return nil, err
	}
	return &entity.Task{
		ID:          m.ID,
		Owner:       ownerFrom(m.UserID, m.GuestID),
		CategoryID:  m.CategoryID,
		Title:       m.Title,
		Description: m.Description,
		Date:        date,
		Completed:   m.Completed,
		Pinned:      m.Pinned,
		IsPublic:    m.IsPublic,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

func taskModelFrom(t *entity.Task) *taskModel {
	userID, guestID := ownerColumns(t.Owner)
	return &taskModel{
		ID:          t.ID,
		UserID:      userID,
		GuestID:     guestID,
		CategoryID:  t.CategoryID,
		Title:       t.Title,
		Description: t.Description,
		Date:        t.DateString(),
		Completed:   t.Completed,
		Pinned:      t.Pinned,
		IsPublic:    t.IsPublic,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (m *categoryModel) toEntity() *entity.Category {
	return &entity.Category{
		ID:        m.ID,
		Owner:     ownerFrom(m.UserID, m.GuestID),
		Name:      m.Name,
		Color:     m.Color,
		CreatedAt: m.CreatedAt,
	}
}

func (m *notificationModel) toEntity() *entity.Notification {
	return &entity.Notification{
		ID:          m.ID,
		RecipientID: m.UserID,
		SenderID:    m.SenderID,
		Message:     m.Message,
		Type:        entity.NotificationType(m.Type),
		Read:        m.Read,
		CreatedAt:   m.CreatedAt,
	}
}
