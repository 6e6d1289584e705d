package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/today-todo/internal/application"
	"github.com/oksasatya/today-todo/internal/interface/middleware"
	"github.com/oksasatya/today-todo/pkg/optional"
	"github.com/oksasatya/today-todo/pkg/response"
)

type CategoryHandler struct {
	Svc    *application.CategoryService
	Logger *logrus.Logger
}

func NewCategoryHandler(svc *application.CategoryService, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{Svc: svc, Logger: logger}
}

type createCategoryRequest struct {
	Name  string `json:"name" binding:"required,max=50"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

type updateCategoryRequest struct {
	Name  optional.Field[string] `json:"name"`
	Color optional.Field[string] `json:"color"`
}

func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.Svc.List(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]categoryDTO, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toCategory(cat))
	}
	response.Success(c, http.StatusOK, out, "categories", nil)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cat, err := h.Svc.Create(c.Request.Context(), middleware.ActorFrom(c), req.Name, req.Color)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toCategory(cat), "category created", nil)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cat, err := h.Svc.Update(c.Request.Context(), middleware.ActorFrom(c), id, application.UpdateCategoryInput{Name: req.Name, Color: req.Color})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toCategory(cat), "category updated", nil)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	deleted(c, "category deleted")
}
