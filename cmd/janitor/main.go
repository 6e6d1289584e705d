package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/today-todo/config"
	"github.com/oksasatya/today-todo/internal/application"
	"github.com/oksasatya/today-todo/internal/container"
	"github.com/oksasatya/today-todo/pkg/helpers"
)

// janitor deletes tasks and categories of guests whose session expired.
func main() {
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-janitor", cfg.Env)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := container.New(cfg, logger)
	defer c.Close()
	if err := c.OpenStore(ctx); err != nil {
		logger.Fatalf("store: %v", err)
	}
	if err := c.OpenRedis(ctx); err != nil {
		logger.Fatalf("redis: %v", err)
	}

	identity := application.NewIdentityService(c.JWT, c.Sessions, c.Guests, cfg.GuestTTL, logger)

	sched := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := sched.AddFunc(cfg.JanitorSchedule, func() { purge(ctx, identity, logger) }); err != nil {
		logger.Fatalf("invalid JANITOR_SCHEDULE %q: %v", cfg.JanitorSchedule, err)
	}

	purge(ctx, identity, logger)
	sched.Start()
	logger.WithField("schedule", cfg.JanitorSchedule).Info("guest janitor started")

	<-ctx.Done()
	logger.Info("shutting down...")
	<-sched.Stop().Done()
}

func purge(ctx context.Context, identity *application.IdentityService, logger *logrus.Logger) {
	start := time.Now()
	n, err := identity.PurgeExpiredGuests(ctx)
	fields := logrus.Fields{"purged": n, "duration_ms": time.Since(start).Milliseconds()}
	if err != nil {
		helpers.LogError(logger, "guest purge failed", err, fields)
		return
	}
	helpers.LogInfo(logger, "guest purge finished", fields)
}
