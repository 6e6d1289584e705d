package validation

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type signup struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,pwd"`
	Date     string `json:"date" binding:"omitempty,day"`
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	Init()
	err := binding.Validator.ValidateStruct(&signup{Password: "abc", Date: "2024/01/01"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	details := ToDetails(err)
	if details["username"] != "is required" {
		t.Errorf("username detail = %q", details["username"])
	}
	if details["password"] != "must be between 6 and 72 characters long" {
		t.Errorf("password detail = %q", details["password"])
	}
	if details["date"] != "must be a date in YYYY-MM-DD format" {
		t.Errorf("date detail = %q", details["date"])
	}
}

func TestToDetailsFallback(t *testing.T) {
	if ToDetails(nil) != nil {
		t.Error("nil error should give nil details")
	}
	if got := ToDetails(errors.New("boom"))["payload"]; got != "invalid payload" {
		t.Errorf("fallback = %q", got)
	}
}
