package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/today-todo/internal/interface/http"
)

type CategoryModule struct {
	Handler     *handlers.CategoryHandler
	EnsureGuest gin.HandlerFunc
}

func NewCategoryModule(h *handlers.CategoryHandler, ensureGuest gin.HandlerFunc) *CategoryModule {
	return &CategoryModule{Handler: h, EnsureGuest: ensureGuest}
}

func (m *CategoryModule) Register(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	categories.Use(m.EnsureGuest)
	{
		categories.GET("", m.Handler.List)
		categories.POST("", m.Handler.Create)
		categories.PUT("/:id", m.Handler.Update)
		categories.DELETE("/:id", m.Handler.Delete)
	}
}
