package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/today-todo/internal/application"
	"github.com/oksasatya/today-todo/internal/interface/middleware"
	"github.com/oksasatya/today-todo/pkg/optional"
	"github.com/oksasatya/today-todo/pkg/response"
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	Date        string `json:"date" binding:"required,day"`
	CategoryID  *int64 `json:"category_id"`
	Completed   bool   `json:"completed"`
	Pinned      bool   `json:"pinned"`
	IsPublic    bool   `json:"is_public"`
}

// updateTaskRequest tells absent fields from null ones; unknown fields are ignored.
type updateTaskRequest struct {
	Title       optional.Field[string] `json:"title"`
	Description optional.Field[string] `json:"description"`
	Date        optional.Field[string] `json:"date"`
	CategoryID  optional.Field[*int64] `json:"category_id"`
	Completed   optional.Field[bool]   `json:"completed"`
	Pinned      optional.Field[bool]   `json:"pinned"`
	IsPublic    optional.Field[bool]   `json:"is_public"`
}

type listTasksQuery struct {
	Date          string `form:"date" binding:"omitempty,day"`
	CategoryID    *int64 `form:"category_id"`
	IncludePinned *bool  `form:"include_pinned"`
}

func (h *TaskHandler) List(c *gin.Context) {
	var q listTasksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	in := application.ListTasksInput{Date: q.Date, CategoryID: q.CategoryID, IncludePinned: true}
	if q.IncludePinned != nil {
		in.IncludePinned = *q.IncludePinned
	}
	tasks, err := h.Svc.List(c.Request.Context(), middleware.ActorFrom(c), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTasks(tasks), "tasks", map[string]any{"count": len(tasks)})
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), middleware.ActorFrom(c), application.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		CategoryID:  req.CategoryID,
		Completed:   req.Completed,
		Pinned:      req.Pinned,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toTask(t), "task created", nil)
}

func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), middleware.ActorFrom(c), id, application.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		CategoryID:  req.CategoryID,
		Completed:   req.Completed,
		Pinned:      req.Pinned,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTask(t), "task updated", nil)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	deleted(c, "task deleted")
}

func (h *TaskHandler) TogglePin(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	t, err := h.Svc.TogglePin(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTask(t), "pin toggled to "+strconv.FormatBool(t.Pinned), nil)
}
