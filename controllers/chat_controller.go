package controllers

import (
	"net/http"
	"strconv"

	"sugurta/models"
	"sugurta/services"

	"github.com/gin-gonic/gin"
)

// ChatController контроллер переписки
type ChatController struct {
	service *services.ChatService
}

func NewChatController(service *services.ChatService) *ChatController {
	return &ChatController{service: service}
}

// CreateRoom создание (или получение существующей) комнаты
func (cc *ChatController) CreateRoom(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные запроса",
			"details": err.Error(),
		})
		return
	}

	room, err := cc.service.GetOrCreateRoom(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  room,
		"success": true,
	})
}

// GetMyRooms комнаты текущего пользователя
func (cc *ChatController) GetMyRooms(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	rooms, err := cc.service.ListRooms(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	unread, _ := cc.service.UnreadCount(userID)

	c.JSON(http.StatusOK, gin.H{
		"result":  gin.H{"rooms": rooms, "unread_count": unread},
		"success": true,
	})
}

// SendMessage отправка сообщения в комнату
func (cc *ChatController) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный id комнаты"})
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные запроса",
			"details": err.Error(),
		})
		return
	}

	message, err := cc.service.SendMessage(uint(roomID), userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"result":  message,
		"success": true,
	})
}

// GetMessages сообщения комнаты
func (cc *ChatController) GetMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный id комнаты"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	messages, err := cc.service.ListMessages(uint(roomID), userID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  gin.H{"messages": messages, "total": len(messages)},
		"success": true,
	})
}

// MarkRead пометить входящие сообщения комнаты прочитанными
func (cc *ChatController) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный id комнаты"})
		return
	}

	if err := cc.service.MarkRead(uint(roomID), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  gin.H{"room_id": roomID},
		"success": true,
		"message": "Сообщения прочитаны",
	})
}
