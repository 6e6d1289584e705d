package optional

import (
	"encoding/json"
	"testing"
)

type patch struct {
	Title      Field[string] `json:"title"`
	CategoryID Field[*int64] `json:"category_id"`
	Pinned     Field[bool]   `json:"pinned"`
}

func TestFieldPresence(t *testing.T) {
	var p patch
	if err := json.Unmarshal([]byte(`{"title":"x","category_id":null}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := p.Title.Get(); !ok || v != "x" {
		t.Errorf("title = %q, %v", v, ok)
	}
	if !p.CategoryID.Set || p.CategoryID.Value != nil {
		t.Errorf("category_id should be set to null, got %+v", p.CategoryID)
	}
	if p.Pinned.Set {
		t.Errorf("pinned should be absent")
	}
	if p.Pinned.Or(true) != true {
		t.Errorf("Or should return fallback for absent field")
	}
}

func TestFieldValue(t *testing.T) {
	var p patch
	if err := json.Unmarshal([]byte(`{"category_id":7,"pinned":false}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.CategoryID.Value == nil || *p.CategoryID.Value != 7 {
		t.Errorf("category_id = %v", p.CategoryID.Value)
	}
	if !p.Pinned.Set || p.Pinned.Value {
		t.Errorf("pinned = %+v", p.Pinned)
	}
	if err := json.Unmarshal([]byte(`{"pinned":"yes"}`), &p); err == nil {
		t.Errorf("expected type error")
	}
}
