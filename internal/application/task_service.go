package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	repo "github.com/oksasatya/today-todo/internal/domain/repository"
	"github.com/oksasatya/today-todo/pkg/optional"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
)

type TaskService struct {
	Tasks      repo.TaskRepository
	Categories repo.CategoryRepository
	Logger     *logrus.Logger
}

func NewTaskService(tasks repo.TaskRepository, categories repo.CategoryRepository, logger *logrus.Logger) *TaskService {
	return &TaskService{Tasks: tasks, Categories: categories, Logger: logger}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Date        string
	CategoryID  *int64
	Completed   bool
	Pinned      bool
	IsPublic    bool
}

type UpdateTaskInput struct {
	Title       optional.Field[string]
	Description optional.Field[string]
	Date        optional.Field[string]
	CategoryID  optional.Field[*int64]
	Completed   optional.Field[bool]
	Pinned      optional.Field[bool]
	IsPublic    optional.Field[bool]
}

type ListTasksInput struct {
	Date          string
	CategoryID    *int64
	IncludePinned bool
}

func (s *TaskService) Create(ctx context.Context, actor entity.Actor, in CreateTaskInput) (*entity.Task, error) {
	if actor.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	title, err := validTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if err := validDescription(in.Description); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Date) == "" {
		return nil, invalid("date", "is required")
	}
	date, err := entity.ParseDate(in.Date)
	if err != nil {
		return nil, invalid("date", "must be a date in YYYY-MM-DD format")
	}
	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, actor, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	t := &entity.Task{
		Owner:       actor.Owner(),
		CategoryID:  in.CategoryID,
		Title:       title,
		Description: in.Description,
		Date:        date,
		Completed:   in.Completed,
		Pinned:      in.Pinned,
		// guests cannot publish
		IsPublic: in.IsPublic && actor.IsUser(),
	}
	if err := s.Tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// List returns the actor's tasks. With a date and IncludePinned, pinned tasks
// of any date are included.
func (s *TaskService) List(ctx context.Context, actor entity.Actor, in ListTasksInput) ([]*entity.Task, error) {
	if actor.IsAnonymous() {
		return []*entity.Task{}, nil
	}
	f := entity.TaskFilter{CategoryID: in.CategoryID, IncludePinned: in.IncludePinned}
	if in.Date != "" {
		d, err := entity.ParseDate(in.Date)
		if err != nil {
			return nil, invalid("date", "must be a date in YYYY-MM-DD format")
		}
		f.Date = &d
	}
	tasks, err := s.Tasks.List(ctx, actor.Owner(), f)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update applies only the fields present in the input.
func (s *TaskService) Update(ctx context.Context, actor entity.Actor, id int64, in UpdateTaskInput) (*entity.Task, error) {
	t, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if v, ok := in.Title.Get(); ok {
		title, err := validTitle(v)
		if err != nil {
			return nil, err
		}
		t.Title = title
	}
	if v, ok := in.Description.Get(); ok {
		if err := validDescription(v); err != nil {
			return nil, err
		}
		t.Description = v
	}
	if v, ok := in.Date.Get(); ok {
		d, err := entity.ParseDate(v)
		if err != nil {
			return nil, invalid("date", "must be a date in YYYY-MM-DD format")
		}
		t.Date = d
	}
	if v, ok := in.CategoryID.Get(); ok {
		if v != nil {
			if err := s.checkCategory(ctx, actor, *v); err != nil {
				return nil, err
			}
		}
		t.CategoryID = v
	}
	if v, ok := in.Completed.Get(); ok {
		t.Completed = v
	}
	if v, ok := in.Pinned.Get(); ok {
		t.Pinned = v
	}
	if v, ok := in.IsPublic.Get(); ok && actor.IsUser() {
		t.IsPublic = v
	}
	if err := s.Tasks.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, actor entity.Actor, id int64) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.Tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

func (s *TaskService) TogglePin(ctx context.Context, actor entity.Actor, id int64) (*entity.Task, error) {
	t, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	t.Pinned = !t.Pinned
	if err := s.Tasks.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("toggle pin %d: %w", id, err)
	}
	return t, nil
}

// owned loads a task and checks the actor owns it.
func (s *TaskService) owned(ctx context.Context, actor entity.Actor, id int64) (*entity.Task, error) {
	if actor.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	t, err := s.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	if err := Authorize(actor, t.Owner).Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// checkCategory rejects references to missing categories and to categories of another owner.
func (s *TaskService) checkCategory(ctx context.Context, actor entity.Actor, id int64) error {
	c, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return invalid("category_id", "does not exist")
		}
		return fmt.Errorf("get category %d: %w", id, err)
	}
	return Authorize(actor, c.Owner).Err()
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid("title", "is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", invalid("title", fmt.Sprintf("must be at most %d characters long", maxTitleLen))
	}
	return title, nil
}

func validDescription(d string) error {
	if utf8.RuneCountInString(d) > maxDescriptionLen {
		return invalid("description", fmt.Sprintf("must be at most %d characters long", maxDescriptionLen))
	}
	return nil
}
