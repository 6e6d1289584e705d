package application

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/today-todo/internal/domain/entity"
	repo "github.com/oksasatya/today-todo/internal/domain/repository"
	"github.com/oksasatya/today-todo/pkg/optional"
)

const maxCategoryNameLen = 50

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type CategoryService struct {
	Categories repo.CategoryRepository
	Logger     *logrus.Logger
}

func NewCategoryService(categories repo.CategoryRepository, logger *logrus.Logger) *CategoryService {
	return &CategoryService{Categories: categories, Logger: logger}
}

type UpdateCategoryInput struct {
	Name  optional.Field[string]
	Color optional.Field[string]
}

func (s *CategoryService) Create(ctx context.Context, actor entity.Actor, name, color string) (*entity.Category, error) {
	if actor.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	name, err := validCategoryName(name)
	if err != nil {
		return nil, err
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = entity.DefaultCategoryColor
	}
	if !hexColor.MatchString(color) {
		return nil, invalid("color", "must be a valid hexadecimal color")
	}
	c := &entity.Category{Owner: actor.Owner(), Name: name, Color: color}
	if err := s.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context, actor entity.Actor) ([]*entity.Category, error) {
	if actor.IsAnonymous() {
		return []*entity.Category{}, nil
	}
	out, err := s.Categories.List(ctx, actor.Owner())
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (s *CategoryService) Update(ctx context.Context, actor entity.Actor, id int64, in UpdateCategoryInput) (*entity.Category, error) {
	c, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if v, ok := in.Name.Get(); ok {
		name, err := validCategoryName(v)
		if err != nil {
			return nil, err
		}
		c.Name = name
	}
	if v, ok := in.Color.Get(); ok {
		v = strings.TrimSpace(v)
		if !hexColor.MatchString(v) {
			return nil, invalid("color", "must be a valid hexadecimal color")
		}
		c.Color = v
	}
	if err := s.Categories.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category %d: %w", id, err)
	}
	return c, nil
}

// Delete removes the category; tasks referencing it keep existing without a category.
func (s *CategoryService) Delete(ctx context.Context, actor entity.Actor, id int64) error {
	c, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.Categories.Delete(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

func (s *CategoryService) owned(ctx context.Context, actor entity.Actor, id int64) (*entity.Category, error) {
	if actor.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	c, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	if err := Authorize(actor, c.Owner).Err(); err != nil {
		return nil, err
	}
	return c, nil
}

func validCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return "", invalid("name", fmt.Sprintf("must be at most %d characters long", maxCategoryNameLen))
	}
	return name, nil
}
