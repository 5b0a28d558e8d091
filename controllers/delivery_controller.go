package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recordstore/services"
)

type DeliveryController struct {
	fees   *services.DeliveryFeeService
	logger *zap.Logger
}

func NewDeliveryController(fees *services.DeliveryFeeService, logger *zap.Logger) *DeliveryController {
	return &DeliveryController{fees: fees, logger: logger}
}

func (ct *DeliveryController) GetAllFees(c *gin.Context) {
	fees, err := ct.fees.ListFees(c.Request.Context())
	if err != nil {
		ct.logger.Error("failed to list delivery fees", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": fees})
}

func (ct *DeliveryController) GetFeeByDistrict(c *gin.Context) {
	district := c.Param("district")
	if district == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "district is required"})
		return
	}

	fee, err := ct.fees.GetFeeByDistrict(c.Request.Context(), district)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			ct.logger.Error("failed to fetch delivery fee", zap.String("district", district), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": errorMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": fee})
}
