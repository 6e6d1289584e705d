package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/today-todo/config"
	"github.com/oksasatya/today-todo/internal/application"
	"github.com/oksasatya/today-todo/internal/container"
	"github.com/oksasatya/today-todo/internal/domain/entity"
	"github.com/oksasatya/today-todo/pkg/helpers"
)

const (
	seedUsername = "default_user"
	seedEmail    = "default@example.com"
	seedPassword = "password123"
)

var seedCategories = []struct{ name, color string }{
	{"Work", "#3498db"},
	{"Personal", "#2ecc71"},
	{"Important", "#e74c3c"},
}

func main() {
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	c := container.New(cfg, logger)
	defer c.Close()
	if err := c.OpenStore(ctx); err != nil {
		logger.Fatalf("store: %v", err)
	}

	users := application.NewUserService(c.Users, c.Follows, nil, c.JWT, cfg.SessionTTL, logger)
	categories := application.NewCategoryService(c.Categories, logger)

	u, err := users.Register(ctx, application.RegisterInput{
		Username: seedUsername,
		Email:    seedEmail,
		Password: seedPassword,
	})
	switch {
	case errors.Is(err, application.ErrUsernameTaken), errors.Is(err, application.ErrEmailTaken):
		u, err = c.Users.GetByUsername(ctx, seedUsername)
		if err != nil {
			logger.Fatalf("load seeded user: %v", err)
		}
	case err != nil:
		logger.Fatalf("seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d username=%s password=%s\n", u.ID, u.Username, seedPassword)

	actor := entity.UserActor(u.ID)
	existing, err := categories.List(ctx, actor)
	if err != nil {
		logger.Fatalf("list categories: %v", err)
	}
	have := make(map[string]bool, len(existing))
	for _, cat := range existing {
		have[cat.Name] = true
	}
	for _, sc := range seedCategories {
		if have[sc.name] {
			continue
		}
		cat, err := categories.Create(ctx, actor, sc.name, sc.color)
		if err != nil {
			logger.Fatalf("seed category %s: %v", sc.name, err)
		}
		fmt.Printf("seeded category: id=%d name=%s color=%s\n", cat.ID, cat.Name, cat.Color)
	}
}
