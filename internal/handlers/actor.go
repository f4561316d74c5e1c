package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-marketplace/internal/auth"
	"creator-marketplace/internal/models"
	"creator-marketplace/internal/services"
)

// actorResolver turns the authenticated request into a services.Actor
type actorResolver struct {
	roles auth.RoleLookup
	authz *auth.Authorizer
}

// resolve returns the caller's role and actor. It reuses the role set by
// RequireCapability and falls back to a lookup. On failure it writes 500.
func (r actorResolver) resolve(c *gin.Context) (models.Role, services.Actor, bool) {
	userID, _ := auth.GetUserID(c)
	role := auth.GetRole(c)
	if role == "" {
		var err error
		role, err = r.roles.Role(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
			return "", services.Actor{}, false
		}
	}
	actor := services.Actor{
		UserID:    userID,
		Moderator: r.authz.Decide(role, auth.CapModerate).Allowed,
	}
	return role, actor, true
}
