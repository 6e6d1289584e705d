package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Follow is the template rendered for a new follower.
const Follow = "follow"

// FollowData defines the fields available to the follow templates.
type FollowData struct {
	AppName       string
	RecipientName string
	FollowerName  string
	Message       string
	ProfileURL    string
	Time          time.Time
}

// Message is a rendered e-mail.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() || rv.IsZero() {
			return fallback
		}
		return value
	}
}

var funcs = map[string]any{
	"formatTime": func(t time.Time, layout string) string { return t.UTC().Format(layout) },
	"default":    defaultFn,
}

// parsed template sets, built once from FS
var (
	parseOnce sync.Once
	textSet   *texttpl.Template
	htmlSet   *htmpl.Template
	parseErr  error
)

func parse() {
	textSet, parseErr = texttpl.New("text").Funcs(funcs).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl")
	if parseErr != nil {
		parseErr = fmt.Errorf("parse text templates: %w", parseErr)
		return
	}
	htmlSet, parseErr = htmpl.New("html").Funcs(funcs).ParseFS(FS, "*.html.tmpl")
	if parseErr != nil {
		parseErr = fmt.Errorf("parse html templates: %w", parseErr)
	}
}

// Render executes <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
// The subject is trimmed to a single line.
func Render(name string, data any) (Message, error) {
	parseOnce.Do(parse)
	if parseErr != nil {
		return Message{}, parseErr
	}

	var subject, text, html bytes.Buffer
	if err := textSet.ExecuteTemplate(&subject, name+".subject.tmpl", data); err != nil {
		return Message{}, fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := textSet.ExecuteTemplate(&text, name+".text.tmpl", data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", name, err)
	}
	if err := htmlSet.ExecuteTemplate(&html, name+".html.tmpl", data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", name, err)
	}
	return Message{
		Subject: strings.Join(strings.Fields(subject.String()), " "),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
