package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/today-todo/internal/application"
	"github.com/oksasatya/today-todo/internal/interface/middleware"
	"github.com/oksasatya/today-todo/pkg/response"
)

type NotificationHandler struct {
	Svc    *application.NotificationService
	Logger *logrus.Logger
}

func NewNotificationHandler(svc *application.NotificationService, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Svc: svc, Logger: logger}
}

type markReadRequest struct {
	NotificationIDs []int64 `json:"notification_ids" binding:"required,dive,gt=0"`
}

func (h *NotificationHandler) List(c *gin.Context) {
	ns, err := h.Svc.List(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	unread := 0
	for _, n := range ns {
		if !n.Read {
			unread++
		}
	}
	response.Success(c, http.StatusOK, toNotifications(ns), "notifications", map[string]any{"unread": unread})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	n, err := h.Svc.MarkRead(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toNotification(n), "notification read", nil)
}

func (h *NotificationHandler) MarkManyRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	count, err := h.Svc.MarkManyRead(c.Request.Context(), middleware.ActorFrom(c), req.NotificationIDs)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true, "updated": count}, "notifications read", nil)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	count, err := h.Svc.MarkAllRead(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true, "updated": count}, "all notifications read", nil)
}

func (h *NotificationHandler) Clear(c *gin.Context) {
	count, err := h.Svc.Clear(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true, "deleted": count}, "notifications cleared", nil)
}
