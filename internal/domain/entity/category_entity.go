package entity

import "time"

// DefaultCategoryColor is applied when a category is created without a color.
const DefaultCategoryColor = "#3498db"

// Category is a user-owned label attachable to tasks.
type Category struct {
	ID        int64
	Owner     Owner
	Name      string
	Color     string
	CreatedAt time.Time
}
