package controllers

import (
	"net/http"
	"strconv"

	"sugurta/models"
	"sugurta/services"

	"github.com/gin-gonic/gin"
)

// GroupController контроллер группового страхования
type GroupController struct {
	service *services.GroupService
}

func NewGroupController(service *services.GroupService) *GroupController {
	return &GroupController{service: service}
}

// CreateGroupDeal создание группы клиентом (идемпотентно по заявке)
func (gc *GroupController) CreateGroupDeal(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateGroupDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные запроса",
			"details": err.Error(),
		})
		return
	}

	deal, err := gc.service.CreateGroupDeal(clientID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"result":  deal,
		"success": true,
		"message": "Группа создана",
	})
}

// JoinGroup вступление провайдера в группу
func (gc *GroupController) JoinGroup(c *gin.Context) {
	providerID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный id группы"})
		return
	}

	var req models.JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные запроса",
			"details": err.Error(),
		})
		return
	}

	participant, err := gc.service.JoinGroup(uint(id), providerID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"result":  participant,
		"success": true,
		"message": "Вы вступили в группу",
	})
}

// FinalizeGroupDeal финализация готовой группы клиентом
func (gc *GroupController) FinalizeGroupDeal(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный id группы"})
		return
	}

	deal, err := gc.service.FinalizeGroupDeal(uint(id), clientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  deal,
		"success": true,
		"message": "Группа финализирована, полисы оформлены",
	})
}

// GetGroupByRequest группа по заявке вместе с участниками
func (gc *GroupController) GetGroupByRequest(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Query("request_id"))
	if err != nil || requestID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Параметр request_id обязателен"})
		return
	}

	response, err := gc.service.GetByRequest(uint(requestID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  response,
		"success": true,
	})
}

// GetFormingGroups группы для витрины провайдеров; по умолчанию
// формирующиеся, статус можно переопределить query-параметром
func (gc *GroupController) GetFormingGroups(c *gin.Context) {
	status := c.DefaultQuery("status", models.GroupDealStatusForming)
	deals, err := gc.service.ListGroups(status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  gin.H{"deals": deals, "total": len(deals)},
		"success": true,
	})
}
