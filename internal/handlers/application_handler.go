package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-marketplace/internal/auth"
	"creator-marketplace/internal/models"
	"creator-marketplace/internal/services"
)

// ApplicationHandler handles applying to briefs and deciding applications
type ApplicationHandler struct {
	apps   *services.ApplicationService
	actors actorResolver
}

// NewApplicationHandler creates a new ApplicationHandler
func NewApplicationHandler(apps *services.ApplicationService, roles auth.RoleLookup, authz *auth.Authorizer) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, actors: actorResolver{roles: roles, authz: authz}}
}

// Apply submits the current creator's application to a brief
// POST /api/briefs/:id/apply
func (h *ApplicationHandler) Apply(c *gin.Context) {
	briefID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.ApplyRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	userID, _ := auth.GetUserID(c)
	app, err := h.apps.Apply(c.Request.Context(), userID, briefID, req.Pitch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// ListBriefApplications returns the applications to one of the brand's briefs
// GET /api/briefs/:id/applications
func (h *ApplicationHandler) ListBriefApplications(c *gin.Context) {
	briefID, ok := paramID(c, "id")
	if !ok {
		return
	}
	_, actor, ok := h.actors.resolve(c)
	if !ok {
		return
	}

	apps, err := h.apps.ListBriefApplications(c.Request.Context(), actor, briefID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "count": len(apps)})
}

// ListMyApplications returns the current creator's applications
// GET /api/applications
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	apps, err := h.apps.ListCreatorApplications(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "count": len(apps)})
}

// Transition accepts or rejects a pending application
// PATCH /api/application/:id
func (h *ApplicationHandler) Transition(c *gin.Context) {
	appID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	_, actor, ok := h.actors.resolve(c)
	if !ok {
		return
	}

	app, err := h.apps.Transition(c.Request.Context(), actor, appID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
