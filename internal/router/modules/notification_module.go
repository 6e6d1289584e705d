package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/today-todo/internal/interface/http"
)

type NotificationModule struct {
	Handler *handlers.NotificationHandler
}

func NewNotificationModule(h *handlers.NotificationHandler) *NotificationModule {
	return &NotificationModule{Handler: h}
}

func (m *NotificationModule) Register(rg *gin.RouterGroup) {
	n := rg.Group("/notifications")
	{
		n.GET("", m.Handler.List)
		n.POST("/read", m.Handler.MarkManyRead)
		n.POST("/read-all", m.Handler.MarkAllRead)
		n.POST("/clear", m.Handler.Clear)
		n.POST("/:id/read", m.Handler.MarkRead)
	}
}
