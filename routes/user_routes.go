package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hk-arcade-map/api-go/controllers"
)

func SetupUserRoutes(public *gin.RouterGroup, userController *controllers.UserController, leaderboardController *controllers.LeaderboardController) {
	public.GET("/users/:id", userController.GetUserProfile)
	public.GET("/leaderboard", leaderboardController.GetLeaderboard)
}
