package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/today-todo/internal/interface/http"
	"github.com/oksasatya/today-todo/internal/interface/middleware"
)

// SocialModule wires the follow graph and the explore pages.
type SocialModule struct {
	Handler *handlers.SocialHandler
	Redis   *redis.Client
}

func NewSocialModule(h *handlers.SocialHandler, rdb *redis.Client) *SocialModule {
	return &SocialModule{Handler: h, Redis: rdb}
}

func (m *SocialModule) Register(rg *gin.RouterGroup) {
	// follow sends e-mail, keep it slow
	followLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByActor(), nil)

	rg.POST("/users/:id/follow", followLimiter, m.Handler.Follow)
	rg.POST("/users/:id/unfollow", m.Handler.Unfollow)
	rg.GET("/users/:id/followers", m.Handler.Followers)
	rg.GET("/users/:id/following", m.Handler.Following)

	rg.GET("/explore/users", m.Handler.ExploreUsers)
	rg.GET("/explore/todos", m.Handler.Feed)
}
