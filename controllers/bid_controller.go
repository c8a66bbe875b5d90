package controllers

import (
	"net/http"
	"strconv"

	"sugurta/models"
	"sugurta/services"

	"github.com/gin-gonic/gin"
)

// BidController контроллер предложений провайдеров
type BidController struct {
	service *services.BidService
}

func NewBidController(service *services.BidService) *BidController {
	return &BidController{service: service}
}

// SubmitBid подача предложения по заявке
func (bc *BidController) SubmitBid(c *gin.Context) {
	providerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.SubmitBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные запроса",
			"details": err.Error(),
		})
		return
	}

	bid, err := bc.service.SubmitBid(providerID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"result":  bid,
		"success": true,
		"message": "Предложение подано",
	})
}

// AcceptBid принятие предложения клиентом
func (bc *BidController) AcceptBid(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный id предложения"})
		return
	}

	policy, err := bc.service.AcceptBid(uint(id), clientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  policy,
		"success": true,
		"message": "Предложение принято, полис оформлен",
	})
}

// RejectBid отклонение предложения клиентом
func (bc *BidController) RejectBid(c *gin.Context) {
	clientID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный id предложения"})
		return
	}

	if err := bc.service.RejectBid(uint(id), clientID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  gin.H{"id": id, "status": models.BidStatusRejected},
		"success": true,
		"message": "Предложение отклонено",
	})
}

// GetBidsByRequest предложения по заявке
func (bc *BidController) GetBidsByRequest(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Query("request_id"))
	if err != nil || requestID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Параметр request_id обязателен"})
		return
	}

	response, err := bc.service.ListByRequest(uint(requestID), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  response,
		"success": true,
	})
}

// GetMyBids предложения текущего провайдера
func (bc *BidController) GetMyBids(c *gin.Context) {
	providerID, ok := currentUserID(c)
	if !ok {
		return
	}

	response, err := bc.service.ListByProvider(providerID, c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  response,
		"success": true,
	})
}
