package helpers

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "secret123" || !CheckPassword(hash, "secret123") {
		t.Fatalf("hash does not verify")
	}
	if CheckPassword(hash, "secret124") || CheckPassword("", "secret123") || CheckPassword("not-a-hash", "secret123") {
		t.Fatalf("wrong input verified")
	}
	if _, err := HashPassword(strings.Repeat("x", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}
