package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"creator-marketplace/internal/models"
)

// Capability names an action guarded by role
type Capability string

const (
	CapManageBriefs         Capability = "manage_briefs"
	CapReviewApplications   Capability = "review_applications"
	CapSearchCreators       Capability = "search_creators"
	CapManageBilling        Capability = "manage_billing"
	CapManageBrandProfile   Capability = "manage_brand_profile"
	CapApplyToBriefs        Capability = "apply_to_briefs"
	CapManageCreatorProfile Capability = "manage_creator_profile"
	CapModerate             Capability = "moderate"
)

// Decision is the outcome of an authorization check
type Decision struct {
	Allowed bool
	Reason  string
}

// Authorizer is the one place roles are mapped to capabilities
type Authorizer struct {
	grants map[models.Role]map[Capability]bool
}

// NewAuthorizer returns the marketplace's role -> capability table
func NewAuthorizer() *Authorizer {
	return &Authorizer{grants: map[models.Role]map[Capability]bool{
		models.RoleBrand: {
			CapManageBriefs:       true,
			CapReviewApplications: true,
			CapSearchCreators:     true,
			CapManageBilling:      true,
			CapManageBrandProfile: true,
		},
		models.RoleCreator: {
			CapApplyToBriefs:        true,
			CapManageCreatorProfile: true,
		},
	}}
}

// Decide checks whether role holds capability. Admins hold every capability.
func (a *Authorizer) Decide(role models.Role, capability Capability) Decision {
	if role == "" {
		return Decision{Reason: "no marketplace profile"}
	}
	if role == models.RoleAdmin {
		return Decision{Allowed: true}
	}
	if a.grants[role][capability] {
		return Decision{Allowed: true}
	}
	return Decision{Reason: string(role) + " accounts cannot " + string(capability)}
}

// RoleLookup resolves a user's marketplace role, "" when the user has no profile
type RoleLookup interface {
	Role(ctx context.Context, userID uuid.UUID) (models.Role, error)
}

// RequireCapability aborts with 403 unless the caller's role holds capability.
// Must run after AuthMiddleware.
func RequireCapability(lookup RoleLookup, authz *Authorizer, capability Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		role, err := lookup.Role(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
			return
		}

		decision := authz.Decide(role, capability)
		if !decision.Allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": decision.Reason})
			return
		}

		c.Set(ctxRole, role)
		c.Next()
	}
}

// GetRole retrieves the role resolved by RequireCapability
func GetRole(c *gin.Context) models.Role {
	if v, ok := c.Get(ctxRole); ok {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return ""
}
