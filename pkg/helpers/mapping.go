package helpers

import (
	"fmt"
	"time"

	"github.com/oksasatya/today-todo/pkg/mailer"
	mailtpl "github.com/oksasatya/today-todo/pkg/mailer/templates"
)

// FollowTemplateData maps a queued follow event onto the follow e-mail template fields.
func FollowTemplateData(ev mailer.FollowEvent, appName, baseURL string) mailtpl.FollowData {
	d := mailtpl.FollowData{
		AppName:       appName,
		RecipientName: ev.RecipientName,
		FollowerName:  ev.FollowerName,
		Message:       ev.Message,
		Time:          time.Now().UTC(),
	}
	if baseURL != "" && ev.FollowerID > 0 {
		d.ProfileURL = fmt.Sprintf("%s/api/users/%d/following", baseURL, ev.FollowerID)
	}
	return d
}
