package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/today-todo/internal/interface/http"
)

// TaskModule wires /todos. Anonymous callers get a guest identity first.
type TaskModule struct {
	Handler     *handlers.TaskHandler
	EnsureGuest gin.HandlerFunc
}

func NewTaskModule(h *handlers.TaskHandler, ensureGuest gin.HandlerFunc) *TaskModule {
	return &TaskModule{Handler: h, EnsureGuest: ensureGuest}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	todos := rg.Group("/todos")
	todos.Use(m.EnsureGuest)
	{
		todos.GET("", m.Handler.List)
		todos.POST("", m.Handler.Create)
		todos.PUT("/:id", m.Handler.Update)
		todos.DELETE("/:id", m.Handler.Delete)
		todos.POST("/:id/toggle-pin", m.Handler.TogglePin)
	}
}
