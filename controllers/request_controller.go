package controllers

import (
	"net/http"
	"strconv"

	"sugurta/models"
	"sugurta/services"

	"github.com/gin-gonic/gin"
)

// RequestController контроллер страховых заявок
type RequestController struct {
	service *services.RequestService
}

func NewRequestController(service *services.RequestService) *RequestController {
	return &RequestController{service: service}
}

// CreateRequest создает заявку клиента
func (rc *RequestController) CreateRequest(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные запроса",
			"details": err.Error(),
		})
		return
	}

	request, err := rc.service.CreateRequest(clientID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"result":  request,
		"success": true,
		"message": "Заявка создана",
	})
}

// GetMyRequests заявки текущего клиента с пагинацией и фильтрами
func (rc *RequestController) GetMyRequests(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	response, err := rc.service.ListByClient(clientID, services.ListFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  response,
		"success": true,
	})
}

// GetAvailableRequests витрина открытых заявок для провайдеров
func (rc *RequestController) GetAvailableRequests(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	response, err := rc.service.ListAvailable(services.ListFilter{
		Category:  c.Query("category"),
		RiskLevel: c.Query("risk_level"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  response,
		"success": true,
	})
}

// GetRequestByID заявка по id
func (rc *RequestController) GetRequestByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный id заявки"})
		return
	}

	request, err := rc.service.GetRequest(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  request,
		"success": true,
	})
}

// CancelRequest отмена заявки (только open)
func (rc *RequestController) CancelRequest(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный id заявки"})
		return
	}

	if err := rc.service.CancelRequest(uint(id), clientID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  gin.H{"id": id, "status": models.RequestStatusCancelled},
		"success": true,
		"message": "Заявка отменена",
	})
}

// DeleteRequest удаление заявки (soft delete, только open)
func (rc *RequestController) DeleteRequest(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный id заявки"})
		return
	}

	if err := rc.service.DeleteRequest(uint(id), clientID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  gin.H{"id": id},
		"success": true,
		"message": "Заявка удалена",
	})
}

// GetMyStats статистика заявок клиента
func (rc *RequestController) GetMyStats(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := rc.service.GetStats(clientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  stats,
		"success": true,
	})
}
