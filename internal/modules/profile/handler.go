package profile

import (
	"errors"
	"net/http"

	"taskboard/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxAvatarSize = 5 << 20 // 5 MB

type UpdateNameRequest struct {
	Name string `json:"name" binding:"required"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/users/me")
	{
		g.PUT("", h.UpdateName)
		g.POST("/avatar", h.UploadAvatar)
		g.DELETE("/avatar", h.DeleteAvatar)
	}
}

func (h *Handler) UpdateName(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req UpdateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.UpdateName(c.Request.Context(), userID, req.Name)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

func (h *Handler) UploadAvatar(c *gin.Context) {
	userID := c.GetInt64("user_id")

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing avatar file")
		return
	}
	if fileHeader.Size > maxAvatarSize {
		response.Error(c, http.StatusBadRequest, "FILE_TOO_LARGE", "Avatar must be under 5 MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Failed to read avatar file")
		return
	}
	defer file.Close()

	user, err := h.service.UploadAvatar(c.Request.Context(), userID, file)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

func (h *Handler) DeleteAvatar(c *gin.Context) {
	userID := c.GetInt64("user_id")

	if err := h.service.DeleteAvatar(c.Request.Context(), userID); err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "deleted"})
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	case errors.Is(err, ErrStorageDisabled):
		response.Error(c, http.StatusServiceUnavailable, "STORAGE_DISABLED", "Avatar storage is not configured")
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
