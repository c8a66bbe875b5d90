package controllers

import (
	"net/http"

	"sugurta/services"
	"sugurta/utils"

	"github.com/gin-gonic/gin"
)

// currentUserID достает user_id, положенный JWT middleware
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Пользователь не авторизован"})
		return 0, false
	}
	userIDInt, ok := userID.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения ID пользователя"})
		return 0, false
	}
	return uint(userIDInt), true
}

// respondServiceError переводит ошибку бизнес-логики в HTTP ответ
func respondServiceError(c *gin.Context, err error) {
	if se, ok := services.AsServiceError(err); ok {
		c.JSON(se.HTTPStatus(), gin.H{"error": se.Message})
		return
	}
	utils.LogError(err, c.FullPath())
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Внутренняя ошибка сервера"})
}
