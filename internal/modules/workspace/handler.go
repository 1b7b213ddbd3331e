package workspace

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
	g := protected.Group("/workspaces")
	{
		g.POST("", h.CreateWorkspace)
		g.GET("", h.ListMine)
		g.GET("/:id", h.GetWorkspace)
		g.POST("/:id/members", h.AddMember)
		g.PATCH("/:id/members/:userID", h.UpdateMemberRole)
		g.DELETE("/:id/members/:userID", h.RemoveMember)
		g.POST("/:id/projects", h.CreateProject)
		g.GET("/:id/projects", h.ListProjects)
	}
}

func (h *Handler) CreateWorkspace(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	w, err := h.service.CreateWorkspace(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create workspace")
		return
	}

	response.Success(c, http.StatusCreated, w)
}

func (h *Handler) ListMine(c *gin.Context) {
	userID := c.GetInt64("user_id")

	list, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get workspaces")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"workspaces": list})
}

func (h *Handler) GetWorkspace(c *gin.Context) {
	userID := c.GetInt64("user_id")
	workspaceID, ok := paramID(c, "id")
	if !ok {
		return
	}

	w, members, err := h.service.GetWorkspace(c.Request.Context(), userID, workspaceID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"workspace": w,
		"members":   members,
	})
}

func (h *Handler) AddMember(c *gin.Context) {
	userID := c.GetInt64("user_id")
	workspaceID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	m, err := h.service.AddMember(c.Request.Context(), userID, workspaceID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, m)
}

func (h *Handler) UpdateMemberRole(c *gin.Context) {
	userID := c.GetInt64("user_id")
	workspaceID, ok := paramID(c, "id")
	if !ok {
		return
	}
	targetID, ok := paramID(c, "userID")
	if !ok {
		return
	}

	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.UpdateMemberRole(c.Request.Context(), userID, workspaceID, targetID, req); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "updated"})
}

func (h *Handler) RemoveMember(c *gin.Context) {
	userID := c.GetInt64("user_id")
	workspaceID, ok := paramID(c, "id")
	if !ok {
		return
	}
	targetID, ok := paramID(c, "userID")
	if !ok {
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), userID, workspaceID, targetID); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "removed"})
}

func (h *Handler) CreateProject(c *gin.Context) {
	userID := c.GetInt64("user_id")
	workspaceID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.CreateProject(c.Request.Context(), userID, workspaceID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, p)
}

func (h *Handler) ListProjects(c *gin.Context) {
	userID := c.GetInt64("user_id")
	workspaceID, ok := paramID(c, "id")
	if !ok {
		return
	}

	list, err := h.service.ListProjects(c.Request.Context(), userID, workspaceID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"projects": list})
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
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Insufficient workspace role")
	case errors.Is(err, ErrLastOwner):
		response.Error(c, http.StatusConflict, "OWNER_PROTECTED", "The workspace owner cannot be changed this way")
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
