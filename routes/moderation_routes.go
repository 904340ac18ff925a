package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hk-arcade-map/api-go/controllers"
)

func SetupModerationRoutes(
	moderation *gin.RouterGroup,
	commentController *controllers.CommentController,
	venueController *controllers.VenueController,
	machineController *controllers.MachineController,
	regionController *controllers.RegionController,
) {
	comments := moderation.Group("/moderation/comments")
	{
		comments.GET("", commentController.ListModerationQueue)
		comments.POST("/:id/approve", commentController.ApproveComment)
		comments.POST("/:id/reject", commentController.RejectComment)
	}

	moderation.POST("/venues", venueController.CreateVenue)
	moderation.PUT("/venues/:id", venueController.UpdateVenue)
	moderation.DELETE("/venues/:id", venueController.DeleteVenue)
	moderation.POST("/venues/:id/machines", venueController.CreateMachine)
	moderation.DELETE("/machines/:id", machineController.DeleteMachine)
	moderation.POST("/regions/classify", regionController.ClassifyRegion)
}
