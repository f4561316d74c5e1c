package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-marketplace/internal/auth"
	"creator-marketplace/internal/models"
	"creator-marketplace/internal/services"
)

// BriefHandler handles brief endpoints
type BriefHandler struct {
	briefs *services.BriefService
	actors actorResolver
}

// NewBriefHandler creates a new BriefHandler
func NewBriefHandler(briefs *services.BriefService, roles auth.RoleLookup, authz *auth.Authorizer) *BriefHandler {
	return &BriefHandler{briefs: briefs, actors: actorResolver{roles: roles, authz: authz}}
}

// CreateBrief posts a brief for the current brand
// POST /api/brief
func (h *BriefHandler) CreateBrief(c *gin.Context) {
	var req models.CreateBriefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID, _ := auth.GetUserID(c)
	brief, err := h.briefs.CreateBrief(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, brief)
}

// ListBriefs returns all open briefs to moderators, a brand's own briefs to
// brands, and eligible briefs to creators
// GET /api/briefs
func (h *BriefHandler) ListBriefs(c *gin.Context) {
	role, actor, ok := h.actors.resolve(c)
	if !ok {
		return
	}

	var (
		briefs []models.Brief
		err    error
	)
	ctx := c.Request.Context()
	switch authz := h.actors.authz; {
	case actor.Moderator:
		briefs, err = h.briefs.ListOpenBriefs(ctx)
	case authz.Decide(role, auth.CapManageBriefs).Allowed:
		briefs, err = h.briefs.ListBrandBriefs(ctx, actor.UserID)
	case authz.Decide(role, auth.CapApplyToBriefs).Allowed:
		briefs, err = h.briefs.ListEligibleBriefs(ctx, actor.UserID)
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": authz.Decide(role, auth.CapApplyToBriefs).Reason})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"briefs": briefs, "count": len(briefs)})
}

// GetBrief returns one brief if the caller may see it
// GET /api/briefs/:id
func (h *BriefHandler) GetBrief(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	_, actor, ok := h.actors.resolve(c)
	if !ok {
		return
	}

	brief, err := h.briefs.GetBrief(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, brief)
}
