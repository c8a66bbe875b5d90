package controllers

import (
	"net/http"

	"sugurta/services"

	"github.com/gin-gonic/gin"
)

// TariffController отдает рыночные базовые тарифы (заполняются кроном)
type TariffController struct {
	parser *services.TariffParser
}

func NewTariffController(parser *services.TariffParser) *TariffController {
	return &TariffController{parser: parser}
}

// GetTariffs список тарифов, опционально по категории
func (tc *TariffController) GetTariffs(c *gin.Context) {
	tariffs, err := tc.parser.GetTariffs(c.Query("category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  gin.H{"tariffs": tariffs, "total": len(tariffs)},
		"success": true,
	})
}
