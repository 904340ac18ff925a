package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hk-arcade-map/api-go/controllers"
)

func SetupVenueRoutes(public *gin.RouterGroup, venueController *controllers.VenueController) {
	venues := public.Group("/venues")
	{
		venues.GET("", venueController.ListVenues)
		venues.GET("/nearby", venueController.GetNearbyVenues)
		venues.GET("/:id", venueController.GetVenue)
		venues.GET("/:id/machines", venueController.GetVenueMachines)
		venues.GET("/:id/photos", venueController.GetVenuePhotos)
		venues.GET("/:id/comments", venueController.GetVenueComments)
		venues.POST("/:id/view", venueController.RecordView)
	}
}

func SetupMachineRoutes(public *gin.RouterGroup, machineController *controllers.MachineController) {
	machines := public.Group("/machines")
	{
		machines.GET("/:id", machineController.GetMachine)
		machines.GET("/:id/photos", machineController.GetMachinePhotos)
		machines.GET("/:id/comments", machineController.GetMachineComments)
		machines.POST("/:id/view", machineController.RecordView)
	}
}

func SetupRegionRoutes(public *gin.RouterGroup, regionController *controllers.RegionController) {
	public.GET("/regions", regionController.ListRegions)
}
