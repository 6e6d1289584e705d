package container

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	pginfra "github.com/oksasatya/today-todo/internal/infrastructure/postgres"
	sqliteinfra "github.com/oksasatya/today-todo/internal/infrastructure/sqlite"
	"github.com/oksasatya/today-todo/pkg/helpers"
)

// OpenStore connects the configured database and binds its repositories.
// Postgres runs pending migrations first; sqlite migrates through gorm.
func (c *Container) OpenStore(ctx context.Context) error {
	cfg := c.Config
	if cfg.UseSQLite() {
		db, err := sqliteinfra.NewDB(cfg.SQLiteDSN)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		c.UseSQLite(db)
		c.Logger.WithField("dsn", cfg.SQLiteDSN).Info("using sqlite store")
		return nil
	}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, c.Logger); err != nil {
		pool.Close()
		return fmt.Errorf("migrate postgres: %w", err)
	}
	c.UsePostgres(pool)
	return nil
}

// OpenRedis connects the session store. Sessions cannot work without it.
func (c *Container) OpenRedis(ctx context.Context) error {
	cfg := c.Config
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("connect redis: %w", err)
	}
	c.UseRedis(rdb)
	return nil
}

// OpenOptional connects avatar storage, user search and the follow event queue.
// Each one is skipped when unconfigured and disabled with a warning when it fails.
func (c *Container) OpenOptional(ctx context.Context) {
	cfg := c.Config

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			c.Logger.WithError(err).Warn("gcs disabled")
		} else {
			c.GCS = gcs
		}
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			err = helpers.EnsureIndex(ctx, es, cfg.ESUsersIndex, helpers.UsersIndexMapping)
		}
		if err != nil {
			c.Logger.WithError(err).Warn("elasticsearch disabled")
		} else {
			c.ES = es
		}
	}

	if cfg.RabbitMQURL != "" && cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQNotifyQueue)
		if err != nil {
			c.Logger.WithError(err).Warn("follow e-mails disabled")
		} else {
			c.Rabbit = pub
		}
	}

	c.Logger.WithFields(logrus.Fields{
		"gcs":    c.GCS != nil,
		"search": c.ES != nil,
		"queue":  c.Rabbit != nil,
	}).Info("optional services")
}
