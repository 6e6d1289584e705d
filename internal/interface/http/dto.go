package handlers

import (
	"time"

	"github.com/oksasatya/today-todo/internal/application"
	"github.com/oksasatya/today-todo/internal/domain/entity"
)

type userDTO struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Nickname       string    `json:"nickname"`
	Bio            string    `json:"bio"`
	ProfileImage   string    `json:"profile_image"`
	CreatedAt      time.Time `json:"created_at"`
	FollowersCount *int      `json:"followers_count,omitempty"`
	FollowingCount *int      `json:"following_count,omitempty"`
}

func toUser(u *entity.User) userDTO {
	return userDTO{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Nickname:     u.DisplayName(),
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
}

func toProfile(p *application.Profile) userDTO {
	d := toUser(p.User)
	d.FollowersCount = &p.FollowersCount
	d.FollowingCount = &p.FollowingCount
	return d
}

type taskDTO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Completed   bool      `json:"completed"`
	Pinned      bool      `json:"pinned"`
	IsPublic    bool      `json:"is_public"`
	CategoryID  *int64    `json:"category_id"`
	UserID      *int64    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTask(t *entity.Task) taskDTO {
	d := taskDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Date:        t.DateString(),
		Completed:   t.Completed,
		Pinned:      t.Pinned,
		IsPublic:    t.IsPublic,
		CategoryID:  t.CategoryID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Owner.UserID != 0 {
		id := t.Owner.UserID
		d.UserID = &id
	}
	return d
}

func toTasks(ts []*entity.Task) []taskDTO {
	out := make([]taskDTO, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTask(t))
	}
	return out
}

type categoryDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

func toCategory(c *entity.Category) categoryDTO {
	return categoryDTO{ID: c.ID, Name: c.Name, Color: c.Color, CreatedAt: c.CreatedAt}
}

type feedItemDTO struct {
	taskDTO
	Category      *string            `json:"category"`
	CategoryColor *string            `json:"category_color"`
	User          entity.UserSummary `json:"user"`
}

func toFeed(items []*entity.FeedItem) []feedItemDTO {
	out := make([]feedItemDTO, 0, len(items))
	for _, it := range items {
		d := feedItemDTO{taskDTO: toTask(&it.Task), User: it.User}
		if it.Category != nil {
			name, color := it.Category.Name, it.Category.Color
			d.Category = &name
			d.CategoryColor = &color
		}
		out = append(out, d)
	}
	return out
}

type notificationDTO struct {
	ID        int64               `json:"id"`
	Message   string              `json:"message"`
	Type      string              `json:"type"`
	Read      bool                `json:"read"`
	CreatedAt time.Time           `json:"created_at"`
	Sender    *entity.UserSummary `json:"sender"`
}

func toNotification(n *entity.Notification) notificationDTO {
	return notificationDTO{
		ID:        n.ID,
		Message:   n.Message,
		Type:      string(n.Type),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
		Sender:    n.Sender,
	}
}

func toNotifications(ns []*entity.Notification) []notificationDTO {
	out := make([]notificationDTO, 0, len(ns))
	for _, n := range ns {
		out = append(out, toNotification(n))
	}
	return out
}
