package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/today-todo/pkg/mailer"
)

type sentMail struct {
	to, subject, text, html string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, text, html})
	return nil
}

func newHandler(s sender) *followHandler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &followHandler{mail: s, appName: "Today", baseURL: "http://todo.test", logger: logger, timeout: time.Second}
}

func followBody(t *testing.T, ev mailer.FollowEvent) []byte {
	t.Helper()
	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestHandleSendsFollowMail(t *testing.T) {
	s := &fakeSender{}
	h := newHandler(s)
	body := followBody(t, mailer.FollowEvent{
		RecipientID: 2, RecipientEmail: "bob@example.com", RecipientName: "bob",
		FollowerID: 1, FollowerName: "alice", Message: "alice started following you.",
	})

	if got := h.handle(context.Background(), body); got != ack {
		t.Fatalf("outcome = %v, want ack", got)
	}
	if len(s.sent) != 1 {
		t.Fatalf("sent %d mails", len(s.sent))
	}
	m := s.sent[0]
	if m.to != "bob@example.com" || m.subject == "" || strings.Contains(m.subject, "\n") {
		t.Fatalf("unexpected mail: %+v", m)
	}
	if !strings.Contains(m.text, "alice") || !strings.Contains(m.html, "alice") {
		t.Fatalf("follower name missing from body: %+v", m)
	}
}

func TestHandleDropsMalformed(t *testing.T) {
	s := &fakeSender{}
	h := newHandler(s)
	if got := h.handle(context.Background(), []byte("{not json")); got != drop {
		t.Fatalf("outcome = %v, want drop", got)
	}
	if got := h.handle(context.Background(), followBody(t, mailer.FollowEvent{FollowerName: "alice"})); got != drop {
		t.Fatalf("outcome = %v, want drop for missing recipient", got)
	}
	if len(s.sent) != 0 {
		t.Fatalf("nothing should be sent")
	}
}

func TestHandleRequeuesOnSendFailure(t *testing.T) {
	h := newHandler(&fakeSender{err: errors.New("mailgun down")})
	body := followBody(t, mailer.FollowEvent{RecipientEmail: "bob@example.com", FollowerName: "alice"})
	if got := h.handle(context.Background(), body); got != requeue {
		t.Fatalf("outcome = %v, want requeue", got)
	}
}
