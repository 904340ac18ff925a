package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hk-arcade-map/api-go/config"
	"github.com/hk-arcade-map/api-go/controllers"
	"github.com/hk-arcade-map/api-go/metrics"
	"github.com/hk-arcade-map/api-go/middleware"
	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/services"
	"gorm.io/gorm"
)

// Dependencies are the shared handles every controller is built from.
type Dependencies struct {
	DB      *gorm.DB
	Service *services.Service
	Store   controllers.PhotoStore // nil disables uploads
	Google  *config.GoogleConfig   // nil disables Google sign-in
	JWT     config.JWTConfig
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	authController := controllers.NewAuthController(deps.DB, deps.Service, deps.Google, deps.JWT)
	venueController := controllers.NewVenueController(deps.DB, deps.Service)
	machineController := controllers.NewMachineController(deps.DB, deps.Service)
	commentController := controllers.NewCommentController(deps.DB, deps.Service)
	uploadController := controllers.NewUploadController(deps.DB, deps.Service, deps.Store)
	leaderboardController := controllers.NewLeaderboardController(deps.DB)
	userController := controllers.NewUserController(deps.DB)
	regionController := controllers.NewRegionController(deps.DB)
	validationController := controllers.NewValidationController(deps.DB)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/healthz", healthz(deps.DB))

	// Public routes; a valid token is still attached so views and ranks know the caller
	public := r.Group("/api")
	public.Use(middleware.OptionalAuth(deps.JWT.Secret))
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/auth/google", authController.GoogleLogin)
		public.POST("/refresh-token", authController.RefreshToken)

		SetupValidationRoutes(public, validationController)
		SetupRegionRoutes(public, regionController)
		SetupVenueRoutes(public, venueController)
		SetupMachineRoutes(public, machineController)
		SetupUserRoutes(public, userController, leaderboardController)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(deps.JWT.Secret))
	{
		protected.POST("/logout", authController.Logout)
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile", authController.UpdateProfile)
		protected.GET("/profile/points", authController.GetPointHistory)

		protected.POST("/venues/:id/check-in", venueController.CheckIn)
		protected.POST("/comments", commentController.CreateComment)
		SetupUploadRoutes(protected, uploadController)
	}

	// Moderator routes
	moderation := r.Group("/api")
	moderation.Use(middleware.AuthMiddleware(deps.JWT.Secret), middleware.RequireRole(deps.DB, models.RoleModerator, models.RoleAdmin))
	{
		SetupModerationRoutes(moderation, commentController, venueController, machineController, regionController)
	}
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
