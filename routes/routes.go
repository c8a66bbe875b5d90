package routes

import (
	"os"
	"strings"

	"sugurta/controllers"
	"sugurta/middleware"
	"sugurta/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter создаёт gin.Engine, регистрирует все маршруты и возвращает роутер
func SetupRouter() *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RecoveryMiddleware())

	// CORS middleware ДО роутов
	allowOrigins := []string{"http://localhost:3000"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		allowOrigins = strings.Split(v, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	userController := controllers.NewUserController(utils.GetRedis())

	r.POST("/auth/register", userController.Register)
	r.POST("/auth/login", userController.Login)
	r.POST("/auth/refresh", userController.Refresh)
	r.GET("/auth/google", userController.GoogleLogin)
	r.GET("/auth/google/callback", userController.GoogleCallback)

	userGroup := r.Group("/user", middleware.JWTAuthMiddleware())
	{
		userGroup.GET("/profile", userController.GetProfile)
		userGroup.POST("/logout", userController.Logout)
	}

	SetupRequestRoutes(r)
	SetupBidRoutes(r)
	SetupOfferRoutes(r)
	SetupGroupRoutes(r)
	SetupChatRoutes(r)
	SetupTariffRoutes(r)

	return r
}
