package application

import (
	"context"
	"testing"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	"github.com/oksasatya/today-todo/pkg/optional"
)

func TestCategoryCreate(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	ctx := context.Background()

	c, err := env.categories.Create(ctx, alice, "Work", "")
	if err != nil {
		t.Fatal(err)
	}
	if c.Color != entity.DefaultCategoryColor {
		t.Errorf("color = %s", c.Color)
	}

	_, err = env.categories.Create(ctx, alice, "", "#fff")
	wantValidation(t, err, "name")
	_, err = env.categories.Create(ctx, alice, "Bad", "blue")
	wantValidation(t, err, "color")
	if _, err := env.categories.Create(ctx, alice, "Short", "#FfF"); err != nil {
		t.Errorf("short hex color rejected: %v", err)
	}

	list, err := env.categories.List(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("list = %d categories", len(list))
	}
}

func TestCategoryUpdate(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	ctx := context.Background()

	c, err := env.categories.Create(ctx, alice, "Work", "#3498db")
	if err != nil {
		t.Fatal(err)
	}
	updated, err := env.categories.Update(ctx, alice, c.ID, UpdateCategoryInput{Color: optional.Of("#e74c3c")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Work" || updated.Color != "#e74c3c" {
		t.Errorf("updated = %+v", updated)
	}

	_, err = env.categories.Update(ctx, bob, c.ID, UpdateCategoryInput{Name: optional.Of("Mine")})
	wantErr(t, err, ErrForbidden)
	_, err = env.categories.Update(ctx, alice, 999, UpdateCategoryInput{})
	wantErr(t, err, ErrCategoryNotFound)
}

func TestCategoryDeleteClearsTaskReferences(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	ctx := context.Background()

	c, err := env.categories.Create(ctx, alice, "Work", "")
	if err != nil {
		t.Fatal(err)
	}
	t1 := env.task(t, alice, CreateTaskInput{Title: "one", Date: "2024-01-15", CategoryID: &c.ID})
	t2 := env.task(t, alice, CreateTaskInput{Title: "two", Date: "2024-01-16", CategoryID: &c.ID})

	if err := env.categories.Delete(ctx, alice, c.ID); err != nil {
		t.Fatal(err)
	}

	tasks, err := env.tasks.List(ctx, alice, ListTasksInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("tasks must survive category delete, got %v", titles(tasks))
	}
	for _, task := range tasks {
		if task.ID != t1.ID && task.ID != t2.ID {
			t.Errorf("unexpected task %d", task.ID)
		}
		if task.CategoryID != nil {
			t.Errorf("task %d still references category %d", task.ID, *task.CategoryID)
		}
	}

	cats, err := env.categories.List(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 0 {
		t.Errorf("category still listed: %+v", cats)
	}
	wantErr(t, env.categories.Delete(ctx, alice, c.ID), ErrCategoryNotFound)
}

func TestCategoryGuestOwnership(t *testing.T) {
	env := newTestEnv(t)
	guest := env.guest(t)
	other := env.guest(t)
	ctx := context.Background()

	c, err := env.categories.Create(ctx, guest, "Later", "")
	if err != nil {
		t.Fatal(err)
	}
	if !c.Owner.Equal(guest.Owner()) {
		t.Errorf("owner = %+v", c.Owner)
	}
	wantErr(t, env.categories.Delete(ctx, other, c.ID), ErrForbidden)

	list, err := env.categories.List(ctx, other)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("other guest sees %d categories", len(list))
	}
}
