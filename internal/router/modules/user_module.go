package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/today-todo/internal/interface/http"
	"github.com/oksasatya/today-todo/internal/interface/middleware"
)

// UserModule wires account, session and profile routes.
// Public: POST /register, /login, /refresh and GET /users/search
// User only (401 otherwise): /logout, /profile, /profile/avatar
type UserModule struct {
	Handler *handlers.UserHandler
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil) // 10 req/min per IP
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	rg.POST("/logout", m.Handler.Logout)

	rg.GET("/profile", m.Handler.GetProfile)
	rg.PUT("/profile", m.Handler.UpdateProfile)
	rg.DELETE("/profile", m.Handler.DeleteAccount)
	rg.POST("/profile/avatar", m.Handler.UploadAvatar)

	rg.GET("/users/search", m.Handler.Search)
}
