package routes

import (
	"sugurta/controllers"
	"sugurta/middleware"
	"sugurta/services"
	"sugurta/utils"

	"github.com/gin-gonic/gin"
)

// SetupChatRoutes настраивает маршруты переписки
func SetupChatRoutes(r *gin.Engine) {
	db := utils.GetDB()
	notifier := services.NewNotifier(utils.GetRedis())
	chatController := controllers.NewChatController(services.NewChatService(db, notifier))

	chatGroup := r.Group("/chat-rooms", middleware.JWTAuthMiddleware())
	{
		chatGroup.POST("", chatController.CreateRoom)
		chatGroup.GET("/my", chatController.GetMyRooms)
		chatGroup.GET("/:id/messages", chatController.GetMessages)
		chatGroup.POST("/:id/messages", chatController.SendMessage)
		chatGroup.PATCH("/:id/read", chatController.MarkRead)
	}
}
