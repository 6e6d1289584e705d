package mailer

// FollowEvent is the JSON payload put on the RabbitMQ queue when a user gains a follower.
// The worker resolves it into an e-mail with the "follow" template.
type FollowEvent struct {
	RecipientID    int64  `json:"recipient_id"`
	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`
	FollowerID     int64  `json:"follower_id"`
	FollowerName   string `json:"follower_name"`
	Message        string `json:"message"`
}

// Valid reports whether the event carries enough data to build an e-mail.
func (e FollowEvent) Valid() bool {
	return e.RecipientEmail != "" && e.FollowerName != ""
}
