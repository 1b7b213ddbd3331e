package task

import (
	"errors"
	"net/http"
	"strconv"

	"taskboard/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/projects/:id/tasks", h.CreateTask)
	protected.GET("/projects/:id/tasks", h.ListByProject)

	g := protected.Group("/tasks")
	{
		g.PATCH("/:id/assign", h.Assign)
		g.PATCH("/:id/status", h.UpdateStatus)
	}
}

func (h *Handler) CreateTask(c *gin.Context) {
	userID := c.GetInt64("user_id")
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	t, err := h.service.CreateTask(c.Request.Context(), userID, projectID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, t)
}

func (h *Handler) Assign(c *gin.Context) {
	userID := c.GetInt64("user_id")
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	t, err := h.service.Assign(c.Request.Context(), userID, taskID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, t)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	userID := c.GetInt64("user_id")
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	t, err := h.service.UpdateStatus(c.Request.Context(), userID, taskID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, t)
}

func (h *Handler) ListByProject(c *gin.Context) {
	userID := c.GetInt64("user_id")
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	list, err := h.service.ListByProject(c.Request.Context(), userID, projectID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tasks": list})
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	case errors.Is(err, ErrNotMember):
		response.Error(c, http.StatusForbidden, "NOT_MEMBER", "You are not a member of this workspace")
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
