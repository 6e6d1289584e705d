package entity

import "time"

// DateLayout is the wire and storage format for task dates.
const DateLayout = "2006-01-02"

// Task is a dated to-do item. Date carries day granularity only.
type Task struct {
	ID          int64
	Owner       Owner
	CategoryID  *int64
	Title       string
	Description string
	Date        time.Time
	Completed   bool
	Pinned      bool
	IsPublic    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DateString formats the task date as YYYY-MM-DD.
func (t *Task) DateString() string {
	return t.Date.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// TaskFilter narrows an owner's task listing.
// With Date set and IncludePinned true, pinned tasks are returned regardless of date.
type TaskFilter struct {
	Date          *time.Time
	CategoryID    *int64
	IncludePinned bool
}

// CategorySummary is the category part of a feed item.
type CategorySummary struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// FeedItem is a public task joined with its owner and category.
type FeedItem struct {
	Task     Task
	User     UserSummary
	Category *CategorySummary
}
