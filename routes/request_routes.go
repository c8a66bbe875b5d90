package routes

import (
	"sugurta/controllers"
	"sugurta/middleware"
	"sugurta/models"
	"sugurta/services"
	"sugurta/utils"

	"github.com/gin-gonic/gin"
)

// SetupRequestRoutes настраивает маршруты страховых заявок
func SetupRequestRoutes(r *gin.Engine) {
	db := utils.GetDB()
	notifier := services.NewNotifier(utils.GetRedis())
	requestController := controllers.NewRequestController(services.NewRequestService(db, notifier))

	requestGroup := r.Group("/requests", middleware.JWTAuthMiddleware())
	{
		// Витрина открытых заявок — только для провайдеров
		requestGroup.GET("/available",
			middleware.RequireRole(models.RoleProvider),
			requestController.GetAvailableRequests)

		// Операции клиента
		clientGroup := requestGroup.Group("", middleware.RequireRole(models.RoleClient))
		{
			clientGroup.POST("", requestController.CreateRequest)
			clientGroup.GET("/my", requestController.GetMyRequests)
			clientGroup.GET("/my-stats", requestController.GetMyStats)
			clientGroup.PATCH("/:id/cancel", requestController.CancelRequest)
			clientGroup.DELETE("/:id", requestController.DeleteRequest)
		}

		requestGroup.GET("/:id", requestController.GetRequestByID)
	}
}
