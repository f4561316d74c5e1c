package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-marketplace/internal/auth"
	"creator-marketplace/internal/models"
	"creator-marketplace/internal/storage"
)

// UploadHandler hands out presigned upload URLs
type UploadHandler struct {
	uploader *storage.Uploader
}

// NewUploadHandler creates a new UploadHandler. uploader may be nil.
func NewUploadHandler(uploader *storage.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// Presign returns a PUT URL and object key for an avatar, logo or portfolio item
// POST /api/uploads/presign
func (h *UploadHandler) Presign(c *gin.Context) {
	var req models.PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, _ := auth.GetUserID(c)
	upload, err := h.uploader.PresignPut(c.Request.Context(), userID, req.Kind, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}
