package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/oksasatya/today-todo/config"
	"github.com/oksasatya/today-todo/internal/application"
	repo "github.com/oksasatya/today-todo/internal/domain/repository"
	pginfra "github.com/oksasatya/today-todo/internal/infrastructure/postgres"
	"github.com/oksasatya/today-todo/internal/infrastructure/redisstore"
	sqliteinfra "github.com/oksasatya/today-todo/internal/infrastructure/sqlite"
	"github.com/oksasatya/today-todo/pkg/helpers"
)

// Container holds the components shared across modules. It is built once in
// main (or a test) and handed to the router; nothing here is a global.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PGPool  *pgxpool.Pool
	DB      *gorm.DB
	Redis   *redis.Client
	GCS     *storage.Client
	ES      *elasticsearch.Client
	Rabbit  *helpers.RabbitPublisher
	JWT     *helpers.JWTManager
	Cookies *helpers.Manager

	Sessions application.SessionStore

	Users         repo.UserRepository
	Follows       repo.FollowRepository
	Tasks         repo.TaskRepository
	Categories    repo.CategoryRepository
	Notifications repo.NotificationRepository
	Guests        repo.GuestRepository
}

func New(cfg *config.Config, logger *logrus.Logger) *Container {
	return &Container{
		Config:  cfg,
		Logger:  logger,
		JWT:     helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL),
		Cookies: helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
	}
}

// UsePostgres binds the pgx repositories.
func (c *Container) UsePostgres(pool *pgxpool.Pool) {
	c.PGPool = pool
	c.Users = pginfra.NewUserRepository(pool)
	c.Follows = pginfra.NewFollowRepository(pool)
	c.Tasks = pginfra.NewTaskRepository(pool)
	c.Categories = pginfra.NewCategoryRepository(pool)
	c.Notifications = pginfra.NewNotificationRepository(pool)
	c.Guests = pginfra.NewGuestRepository(pool)
}

// UseSQLite binds the gorm repositories.
func (c *Container) UseSQLite(db *gorm.DB) {
	c.DB = db
	c.Users = sqliteinfra.NewUserRepository(db)
	c.Follows = sqliteinfra.NewFollowRepository(db)
	c.Tasks = sqliteinfra.NewTaskRepository(db)
	c.Categories = sqliteinfra.NewCategoryRepository(db)
	c.Notifications = sqliteinfra.NewNotificationRepository(db)
	c.Guests = sqliteinfra.NewGuestRepository(db)
}

// UseRedis backs sessions and rate limiting with Redis.
func (c *Container) UseRedis(rdb *redis.Client) {
	c.Redis = rdb
	c.Sessions = redisstore.NewSessionStore(rdb)
}

// Close releases every client that was opened.
func (c *Container) Close() {
	if c.Rabbit != nil {
		c.Rabbit.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
