package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hk-arcade-map/api-go/controllers"
)

func SetupUploadRoutes(protected *gin.RouterGroup, uploadController *controllers.UploadController) {
	upload := protected.Group("/upload")
	{
		upload.POST("/presigned-url", uploadController.GetPresignedURL)
		upload.POST("/confirm", uploadController.ConfirmUpload)
		upload.POST("/avatar-url", uploadController.GetAvatarURL)
		upload.POST("/avatar/confirm", uploadController.ConfirmAvatar)
	}
	protected.DELETE("/photos/:id", uploadController.DeletePhoto)
}
