package routes

import (
	"sugurta/controllers"
	"sugurta/middleware"
	"sugurta/models"
	"sugurta/services"
	"sugurta/utils"

	"github.com/gin-gonic/gin"
)

// SetupOfferRoutes настраивает маршруты витрины продуктов и полисов
func SetupOfferRoutes(r *gin.Engine) {
	db := utils.GetDB()
	notifier := services.NewNotifier(utils.GetRedis())
	offerController := controllers.NewOfferController(services.NewOfferService(db, notifier))

	offerGroup := r.Group("/offers", middleware.JWTAuthMiddleware())
	{
		offerGroup.GET("", offerController.GetOffers)
		offerGroup.POST("", middleware.RequireRole(models.RoleProvider), offerController.CreateOffer)
		offerGroup.PATCH("/:id/deactivate", middleware.RequireRole(models.RoleProvider), offerController.DeactivateOffer)
		offerGroup.POST("/:id/accept", middleware.RequireRole(models.RoleClient), offerController.AcceptOffer)
	}

	policyGroup := r.Group("/accepted-offers", middleware.JWTAuthMiddleware())
	{
		policyGroup.GET("/my", offerController.GetMyPolicies)
		policyGroup.PATCH("/:id/cancel", middleware.RequireRole(models.RoleClient), offerController.CancelAcceptedOffer)
	}
}
