package entity

import "time"

// NotificationType tags what produced a notification.
type NotificationType string

const NotificationFollow NotificationType = "follow"

// Notification is an append-only message for one recipient.
// SenderID is a weak reference: it becomes nil when the sender is deleted.
type Notification struct {
	ID          int64
	RecipientID int64
	SenderID    *int64
	Message     string
	Type        NotificationType
	Read        bool
	CreatedAt   time.Time

	// Sender is filled on listing when the sender still exists.
	Sender *UserSummary
}
