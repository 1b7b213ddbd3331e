package notification

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// cursorLayout is how created_at cursors travel in query strings.
const cursorLayout = time.RFC3339Nano

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/notifications")
	{
		g.GET("", h.List)
		g.PATCH("/:id/read", h.ToggleRead)
		g.POST("/mark-all-read", h.MarkAllRead)
		g.DELETE("", h.ClearAll)
	}
	protected.GET("/ws", h.ServeWS)
}

// RegisterInternalRoutes exposes the fan-out entrypoint to other backend
// services, behind the internal token.
func (h *Handler) RegisterInternalRoutes(internal *gin.RouterGroup) {
	internal.POST("/notifications/fanout", h.Fanout)
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	limit := 20
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
			if limit > 100 {
				limit = 100
			}
		}
	}

	var before *time.Time
	if s := c.Query("cursor"); s != "" {
		t, err := time.Parse(cursorLayout, s)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_CURSOR", "Cursor must be an RFC3339 timestamp")
			return
		}
		before = &t
	}

	items, err := h.service.List(c.Request.Context(), userID, limit, before)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get notifications")
		return
	}

	var nextCursor *string
	if len(items) == limit {
		s := items[len(items)-1].CreatedAt.Format(cursorLayout)
		nextCursor = &s
	}

	unread, err := h.service.CountUnread(c.Request.Context(), userID)
	if err != nil {
		unread = 0
	}

	response.Success(c, http.StatusOK, gin.H{
		"items":        items,
		"next_cursor":  nextCursor,
		"unread_count": unread,
	})
}

func (h *Handler) ToggleRead(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID")
		return
	}

	var req ToggleReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.SetRead(c.Request.Context(), id, userID, *req.Read); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update notification")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "is_read": *req.Read})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	if err := h.service.MarkAllRead(c.Request.Context(), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to mark as read")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) ClearAll(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	if err := h.service.ClearAll(c.Request.Context(), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to clear notifications")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

// Fanout persists one row per recipient. Partial failure still answers
// 200: losing one recipient's notification is acceptable, failing the
// caller's primary action is not.
func (h *Handler) Fanout(c *gin.Context) {
	var req FanoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	typ := domain.NotificationType(req.Type)
	if !typ.Valid() {
		response.Error(c, http.StatusBadRequest, "INVALID_TYPE", "Unknown notification type")
		return
	}

	res := h.service.FanOut(c.Request.Context(), FanOutInput{
		Type:        typ,
		ActorID:     *req.ActorID,
		Recipients:  req.Recipients,
		Title:       req.Title,
		Body:        req.Body,
		WorkspaceID: req.WorkspaceID,
		ProjectID:   req.ProjectID,
		TaskID:      req.TaskID,
		ThreadID:    req.ThreadID,
		MessageID:   req.MessageID,
		DedupToken:  req.DedupToken,
	})

	response.Success(c, http.StatusOK, res)
}

func (h *Handler) ServeWS(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	h.hub.ServeWS(conn, userID)
}
