package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/today-todo/internal/application"
	"github.com/oksasatya/today-todo/internal/interface/middleware"
	"github.com/oksasatya/today-todo/pkg/response"
)

type SocialHandler struct {
	Svc    *application.SocialService
	Logger *logrus.Logger
}

func NewSocialHandler(svc *application.SocialService, logger *logrus.Logger) *SocialHandler {
	return &SocialHandler{Svc: svc, Logger: logger}
}

func (h *SocialHandler) Follow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	created, err := h.Svc.Follow(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"following": true, "created": created}, "followed", nil)
}

func (h *SocialHandler) Unfollow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Unfollow(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"following": false}, "unfollowed", nil)
}

func (h *SocialHandler) Followers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	users, err := h.Svc.Followers(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "followers", map[string]any{"count": len(users)})
}

func (h *SocialHandler) Following(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	users, err := h.Svc.Following(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "following", map[string]any{"count": len(users)})
}

func (h *SocialHandler) ExploreUsers(c *gin.Context) {
	out, err := h.Svc.ExploreUsers(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out, "explore users", nil)
}

func (h *SocialHandler) Feed(c *gin.Context) {
	items, err := h.Svc.Feed(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toFeed(items), "feed", map[string]any{"count": len(items)})
}
