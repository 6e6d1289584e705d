package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/today-todo/pkg/helpers"
	"github.com/oksasatya/today-todo/pkg/mailer"
	mailtpl "github.com/oksasatya/today-todo/pkg/mailer/templates"
)

// outcome says what to do with a delivery.
type outcome int

const (
	ack     outcome = iota
	requeue         // transient failure, try again later
	drop            // malformed, never retry
)

func (o outcome) String() string {
	switch o {
	case ack:
		return "ack"
	case requeue:
		return "requeue"
	default:
		return "drop"
	}
}

// sender is satisfied by *mailer.Mailgun.
type sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

type followHandler struct {
	mail    sender
	appName string
	baseURL string
	logger  *logrus.Logger
	timeout time.Duration
}

// handle turns one queued follow event into an e-mail.
func (h *followHandler) handle(ctx context.Context, body []byte) outcome {
	var ev mailer.FollowEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		h.logger.WithError(err).Warn("bad follow event")
		return drop
	}
	if !ev.Valid() {
		h.logger.WithField("recipient_id", ev.RecipientID).Warn("incomplete follow event")
		return drop
	}

	data := helpers.FollowTemplateData(ev, h.appName, h.baseURL)
	msg, err := mailtpl.Render(mailtpl.Follow, data)
	if err != nil {
		helpers.LogError(h.logger, "render follow e-mail failed", err, logrus.Fields{"recipient_id": ev.RecipientID})
		return drop
	}

	c, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	if err := h.mail.Send(c, ev.RecipientEmail, msg.Subject, msg.Text, msg.HTML); err != nil {
		helpers.LogError(h.logger, "send follow e-mail failed", err, logrus.Fields{
			"recipient_id": ev.RecipientID,
			"follower_id":  ev.FollowerID,
		})
		return requeue
	}
	helpers.LogInfo(h.logger, "follow e-mail sent", logrus.Fields{
		"recipient_id": ev.RecipientID,
		"follower_id":  ev.FollowerID,
	})
	return ack
}
