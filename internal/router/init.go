package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/today-todo/internal/application"
	"github.com/oksasatya/today-todo/internal/container"
	handlers "github.com/oksasatya/today-todo/internal/interface/http"
	"github.com/oksasatya/today-todo/internal/interface/middleware"
	"github.com/oksasatya/today-todo/internal/router/modules"
	"github.com/oksasatya/today-todo/pkg/response"
)

// Services are the application services built from a container.
type Services struct {
	Users         *application.UserService
	Identity      *application.IdentityService
	Tasks         *application.TaskService
	Categories    *application.CategoryService
	Social        *application.SocialService
	Notifications *application.NotificationService
}

// BuildServices wires the application layer from a container.
func BuildServices(c *container.Container) *Services {
	cfg := c.Config

	users := application.NewUserService(c.Users, c.Follows, c.Sessions, c.JWT, cfg.SessionTTL, c.Logger)
	users.DefaultAvatar = cfg.DefaultAvatar
	if c.GCS != nil {
		users.WithStorage(c.GCS, cfg.GCSBucket)
	}
	if c.ES != nil {
		users.WithSearch(c.ES, cfg.ESUsersIndex)
	}

	var events application.EventPublisher
	if c.Rabbit != nil && cfg.MailSendEnabled {
		events = c.Rabbit
	}

	return &Services{
		Users:         users,
		Identity:      application.NewIdentityService(c.JWT, c.Sessions, c.Guests, cfg.GuestTTL, c.Logger),
		Tasks:         application.NewTaskService(c.Tasks, c.Categories, c.Logger),
		Categories:    application.NewCategoryService(c.Categories, c.Logger),
		Social:        application.NewSocialService(c.Users, c.Follows, c.Tasks, events, c.Logger),
		Notifications: application.NewNotificationService(c.Notifications),
	}
}

// InitModules registers the identity middleware and every feature module.
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, c *container.Container, svc *Services) {
	// debug endpoints carry their own limiter
	allow := middleware.AllowPaths("/api/health", "/api/debug/vars", "/api/debug/metrics")
	if c.Config.Env == "development" {
		allow = middleware.AnyOf(allow, middleware.AllowPrivateIP())
	}
	r.Use(
		middleware.Identity(svc.Identity, c.Cookies),
		middleware.RateLimit(c.Redis, 300, time.Minute, middleware.KeyByActor(), allow),
	)

	ensureGuest := middleware.EnsureGuest(svc.Identity, c.Cookies)

	r.Add(
		modules.NewUserModule(handlers.NewUserHandler(svc.Users, svc.Identity, c.Logger, c.Cookies), c.Redis),
		modules.NewTaskModule(handlers.NewTaskHandler(svc.Tasks, c.Logger), ensureGuest),
		modules.NewCategoryModule(handlers.NewCategoryHandler(svc.Categories, c.Logger), ensureGuest),
		modules.NewSocialModule(handlers.NewSocialHandler(svc.Social, c.Logger), c.Redis),
		modules.NewNotificationModule(handlers.NewNotificationHandler(svc.Notifications, c.Logger)),
		ModuleFunc(func(rg *gin.RouterGroup) {
			rg.GET("/health", func(ctx *gin.Context) {
				response.Success(ctx, http.StatusOK, gin.H{"status": "ok"}, "healthy", nil)
			})
		}),
	)
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
}
