package routes

import (
	"sugurta/controllers"
	"sugurta/middleware"
	"sugurta/models"
	"sugurta/services"
	"sugurta/utils"

	"github.com/gin-gonic/gin"
)

// SetupGroupRoutes настраивает маршруты группового страхования
func SetupGroupRoutes(r *gin.Engine) {
	db := utils.GetDB()
	notifier := services.NewNotifier(utils.GetRedis())
	groupController := controllers.NewGroupController(services.NewGroupService(db, notifier))

	groupGroup := r.Group("/group-deals", middleware.JWTAuthMiddleware())
	{
		groupGroup.POST("", middleware.RequireRole(models.RoleClient), groupController.CreateGroupDeal)
		groupGroup.POST("/:id/finalize", middleware.RequireRole(models.RoleClient), groupController.FinalizeGroupDeal)
		groupGroup.POST("/:id/join", middleware.RequireRole(models.RoleProvider), groupController.JoinGroup)
		groupGroup.GET("/forming", middleware.RequireRole(models.RoleProvider), groupController.GetFormingGroups)
		groupGroup.GET("", groupController.GetGroupByRequest)
	}
}
