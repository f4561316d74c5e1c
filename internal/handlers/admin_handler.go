package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-marketplace/internal/auth"
	"creator-marketplace/internal/models"
	"creator-marketplace/internal/services"
)

// AdminHandler handles moderation endpoints. Routes must sit behind
// RequireCapability(CapModerate).
type AdminHandler struct {
	profiles *services.ProfileService
}

func NewAdminHandler(profiles *services.ProfileService) *AdminHandler {
	return &AdminHandler{profiles: profiles}
}

// CreateTrade adds a trade to the catalogue
// POST /api/admin/trades
func (h *AdminHandler) CreateTrade(c *gin.Context) {
	var req models.CreateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	trade, err := h.profiles.CreateTrade(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trade)
}

// DeleteCreator removes a creator profile and its applications
// DELETE /api/admin/creators/:id
func (h *AdminHandler) DeleteCreator(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.profiles.DeleteCreatorProfile(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	adminID, _ := auth.GetUserID(c)
	slog.InfoContext(c.Request.Context(), "creator removed by moderator", "creator_id", id, "admin_id", adminID)
	c.Status(http.StatusNoContent)
}
