package controllers

import (
	"net/http"
	"strconv"

	"sugurta/models"
	"sugurta/services"

	"github.com/gin-gonic/gin"
)

// OfferController контроллер витрины продуктов и полисов
type OfferController struct {
	service *services.OfferService
}

func NewOfferController(service *services.OfferService) *OfferController {
	return &OfferController{service: service}
}

// CreateOffer публикация продукта провайдером
func (oc *OfferController) CreateOffer(c *gin.Context) {
	providerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные запроса",
			"details": err.Error(),
		})
		return
	}

	offer, err := oc.service.CreateOffer(providerID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"result":  offer,
		"success": true,
		"message": "Продукт опубликован",
	})
}

// GetOffers витрина активных продуктов
func (oc *OfferController) GetOffers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	response, err := oc.service.ListOffers(c.Query("category"), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  response,
		"success": true,
	})
}

// DeactivateOffer снятие продукта с витрины
func (oc *OfferController) DeactivateOffer(c *gin.Context) {
	providerID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный id продукта"})
		return
	}

	if err := oc.service.DeactivateOffer(uint(id), providerID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  gin.H{"id": id, "active": false},
		"success": true,
		"message": "Продукт снят с витрины",
	})
}

// AcceptOffer оформление продукта клиентом
func (oc *OfferController) AcceptOffer(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный id продукта"})
		return
	}

	var req models.AcceptOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные запроса",
			"details": err.Error(),
		})
		return
	}

	policy, err := oc.service.AcceptOffer(uint(id), clientID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"result":  policy,
		"success": true,
		"message": "Полис оформлен",
	})
}

// CancelAcceptedOffer расторжение полиса клиентом
func (oc *OfferController) CancelAcceptedOffer(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный id полиса"})
		return
	}

	if err := oc.service.CancelAcceptedOffer(uint(id), clientID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  gin.H{"id": id, "status": models.AcceptedOfferStatusCancelled},
		"success": true,
		"message": "Полис расторгнут",
	})
}

// GetMyPolicies полисы текущего пользователя (по его роли)
func (oc *OfferController) GetMyPolicies(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	role, _ := c.Get("role")
	status := c.Query("status")
	var response *models.AcceptedOfferListResponse
	var err error
	if role == models.RoleProvider {
		response, err = oc.service.ListAcceptedByProvider(userID, status)
	} else {
		response, err = oc.service.ListAcceptedByClient(userID, status)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  response,
		"success": true,
	})
}
