package routes

import (
	"sugurta/controllers"
	"sugurta/middleware"
	"sugurta/models"
	"sugurta/services"
	"sugurta/utils"

	"github.com/gin-gonic/gin"
)

// SetupBidRoutes настраивает маршруты предложений
func SetupBidRoutes(r *gin.Engine) {
	db := utils.GetDB()
	rdb := utils.GetRedis()
	notifier := services.NewNotifier(rdb)
	bidController := controllers.NewBidController(services.NewBidService(db, rdb, notifier))

	bidGroup := r.Group("/bids", middleware.JWTAuthMiddleware())
	{
		// Подача и просмотр своих предложений — провайдер
		bidGroup.POST("", middleware.RequireRole(models.RoleProvider), bidController.SubmitBid)
		bidGroup.GET("/my", middleware.RequireRole(models.RoleProvider), bidController.GetMyBids)

		// Решения по предложениям — клиент (владелец заявки)
		bidGroup.PATCH("/:id/accept", middleware.RequireRole(models.RoleClient), bidController.AcceptBid)
		bidGroup.PATCH("/:id/reject", middleware.RequireRole(models.RoleClient), bidController.RejectBid)

		bidGroup.GET("", bidController.GetBidsByRequest)
	}
}
