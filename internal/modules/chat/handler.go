package chat

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
	protected.POST("/workspaces/:id/threads", h.CreateThread)

	g := protected.Group("/threads")
	{
		g.POST("/:id/messages", h.PostMessage)
		g.GET("/:id/messages", h.ListMessages)
	}
}

func (h *Handler) CreateThread(c *gin.Context) {
	userID := c.GetInt64("user_id")
	workspaceID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	t, err := h.service.CreateThread(c.Request.Context(), userID, workspaceID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, t)
}

func (h *Handler) PostMessage(c *gin.Context) {
	userID := c.GetInt64("user_id")
	threadID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	msg, err := h.service.PostMessage(c.Request.Context(), userID, threadID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, msg)
}

func (h *Handler) ListMessages(c *gin.Context) {
	userID := c.GetInt64("user_id")
	threadID, ok := paramID(c, "id")
	if !ok {
		return
	}

	limit := 0
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			limit = v
		}
	}

	list, err := h.service.ListMessages(c.Request.Context(), userID, threadID, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"messages": list})
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
	case errors.Is(err, ErrNotParticipant):
		response.Error(c, http.StatusForbidden, "NOT_PARTICIPANT", "You are not a participant of this thread")
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
