package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"creator-marketplace/internal/auth"
	"creator-marketplace/internal/logging"
	"creator-marketplace/internal/services"
	"creator-marketplace/internal/storage"
)

// Dependencies is everything the HTTP surface needs
type Dependencies struct {
	Logger         *slog.Logger
	Verifier       *auth.Verifier
	Authorizer     *auth.Authorizer
	Profiles       *services.ProfileService
	Briefs         *services.BriefService
	Applications   *services.ApplicationService
	Search         *services.SearchService
	Subscriptions  *services.SubscriptionService
	Uploader       *storage.Uploader
	AllowedOrigins []string
}

// NewRouter builds the gin engine with middleware and every route
func NewRouter(d Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.Middleware(d.Logger))

	if len(d.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     d.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	profileHandler := NewProfileHandler(d.Profiles)
	adminHandler := NewAdminHandler(d.Profiles)
	briefHandler := NewBriefHandler(d.Briefs, d.Profiles, d.Authorizer)
	applicationHandler := NewApplicationHandler(d.Applications, d.Profiles, d.Authorizer)
	searchHandler := NewSearchHandler(d.Search)
	billingHandler := NewBillingHandler(d.Subscriptions)
	uploadHandler := NewUploadHandler(d.Uploader)

	require := func(capability auth.Capability) gin.HandlerFunc {
		return auth.RequireCapability(d.Profiles, d.Authorizer, capability)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Payment provider webhook (public, signature-verified)
	router.POST("/webhook", billingHandler.Webhook)

	api := router.Group("/api")
	api.Use(auth.AuthMiddleware(d.Verifier))
	{
		api.GET("/me", profileHandler.GetMe)
		api.GET("/trades", profileHandler.ListTrades)
		api.POST("/uploads/presign", uploadHandler.Presign)

		// Profiles: creating one is open to any signed-in user without a role
		api.POST("/profile/creator", profileHandler.CreateCreatorProfile)
		api.PUT("/profile/creator", require(auth.CapManageCreatorProfile), profileHandler.UpdateCreatorProfile)
		api.GET("/profile/creator", require(auth.CapManageCreatorProfile), profileHandler.GetCreatorProfile)
		api.POST("/profile/brand", profileHandler.CreateBrandProfile)
		api.PUT("/profile/brand", require(auth.CapManageBrandProfile), profileHandler.UpdateBrandProfile)
		api.GET("/profile/brand", require(auth.CapManageBrandProfile), profileHandler.GetBrandProfile)

		// Creator search, must come before :id
		api.GET("/creators/search", require(auth.CapSearchCreators), searchHandler.SearchCreators)
		api.GET("/creators/:id", require(auth.CapSearchCreators), profileHandler.GetCreator)

		// Briefs
		api.POST("/brief", require(auth.CapManageBriefs), briefHandler.CreateBrief)
		api.GET("/briefs", briefHandler.ListBriefs)
		api.GET("/briefs/:id", briefHandler.GetBrief)
		api.GET("/briefs/:id/applications", require(auth.CapReviewApplications), applicationHandler.ListBriefApplications)
		api.POST("/briefs/:id/apply", require(auth.CapApplyToBriefs), applicationHandler.Apply)

		// Applications
		api.GET("/applications", require(auth.CapApplyToBriefs), applicationHandler.ListMyApplications)
		api.PATCH("/application/:id", require(auth.CapReviewApplications), applicationHandler.Transition)

		// Billing
		api.POST("/checkout", require(auth.CapManageBilling), billingHandler.StartCheckout)
		api.GET("/subscription", require(auth.CapManageBilling), billingHandler.GetSubscription)
	}

	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware(d.Verifier), require(auth.CapModerate))
	{
		admin.POST("/trades", adminHandler.CreateTrade)
		admin.DELETE("/creators/:id", adminHandler.DeleteCreator)
	}

	return router
}
