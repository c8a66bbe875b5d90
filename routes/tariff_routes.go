package routes

import (
	"sugurta/controllers"
	"sugurta/services"
	"sugurta/utils"

	"github.com/gin-gonic/gin"
)

// SetupTariffRoutes настраивает маршруты рыночных тарифов (без JWT)
func SetupTariffRoutes(r *gin.Engine) {
	tariffController := controllers.NewTariffController(services.NewTariffParser(utils.GetDB()))

	r.GET("/tariffs", tariffController.GetTariffs)
}
