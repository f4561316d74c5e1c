package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-marketplace/internal/auth"
	"creator-marketplace/internal/models"
	"creator-marketplace/internal/services"
)

// ProfileHandler handles the signed-in user's profiles and the trade catalogue
type ProfileHandler struct {
	profiles *services.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetMe returns the current user's profile and side profile
// GET /api/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	me, err := h.profiles.GetMe(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, me)
}

// ListTrades returns the trade catalogue
// GET /api/trades
func (h *ProfileHandler) ListTrades(c *gin.Context) {
	trades, err := h.profiles.ListTrades(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": trades, "count": len(trades)})
}

// CreateCreatorProfile registers the current user as a creator
// POST /api/profile/creator
func (h *ProfileHandler) CreateCreatorProfile(c *gin.Context) {
	var req models.CreatorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, _ := auth.GetUserID(c)
	creator, err := h.profiles.CreateCreatorProfile(c.Request.Context(), userID, auth.GetEmail(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, creator)
}

// UpdateCreatorProfile replaces the current user's creator profile
// PUT /api/profile/creator
func (h *ProfileHandler) UpdateCreatorProfile(c *gin.Context) {
	var req models.CreatorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, _ := auth.GetUserID(c)
	creator, err := h.profiles.UpdateCreatorProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, creator)
}

// GetCreatorProfile returns the current user's creator profile
// GET /api/profile/creator
func (h *ProfileHandler) GetCreatorProfile(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	creator, err := h.profiles.GetCreatorByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, creator)
}

// GetCreator returns any creator profile by id
// GET /api/creators/:id
func (h *ProfileHandler) GetCreator(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	creator, err := h.profiles.GetCreatorProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, creator)
}

// CreateBrandProfile registers the current user as a brand
// POST /api/profile/brand
func (h *ProfileHandler) CreateBrandProfile(c *gin.Context) {
	var req models.BrandProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, _ := auth.GetUserID(c)
	brand, err := h.profiles.CreateBrandProfile(c.Request.Context(), userID, auth.GetEmail(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, brand)
}

// UpdateBrandProfile replaces the current user's brand profile
// PUT /api/profile/brand
func (h *ProfileHandler) UpdateBrandProfile(c *gin.Context) {
	var req models.BrandProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, _ := auth.GetUserID(c)
	brand, err := h.profiles.UpdateBrandProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, brand)
}

// GetBrandProfile returns the current user's brand profile with its subscription
// GET /api/profile/brand
func (h *ProfileHandler) GetBrandProfile(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	brand, err := h.profiles.GetBrandByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, brand)
}
