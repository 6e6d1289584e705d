package helpers

import (
	"strings"
	"testing"
)

func TestAvatarObjectPath(t *testing.T) {
	p := AvatarObjectPath(42, "PNG")
	if !strings.HasPrefix(p, "avatars/42/") {
		t.Fatalf("unexpected prefix: %s", p)
	}
	if !strings.HasSuffix(p, ".png") {
		t.Fatalf("extension not normalised: %s", p)
	}
	if AvatarObjectPath(42, ".png") == p {
		t.Fatal("object names must be unique per upload")
	}
}

func TestPublicURL(t *testing.T) {
	got := PublicURL("todo-bucket", "/avatars/1/a.jpg")
	want := "https://storage.googleapis.com/todo-bucket/avatars/1/a.jpg"
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}
