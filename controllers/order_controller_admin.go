package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recordstore/models"
)

// Admin-side order operations: fulfillment status and payment status move
// on independent axes, so they have separate endpoints.

func (ct *OrderController) UpdateOrderStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	order, err := ct.orders.UpdateStatus(c.Request.Context(), c.Param("id"), models.OrderStatus(body.Status), body.Note)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			ct.logger.Error("failed to update order status", zap.String("orderId", c.Param("id")), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": errorMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": order})
}

func (ct *OrderController) UpdatePaymentStatus(c *gin.Context) {
	var body struct {
		PaymentStatus string `json:"paymentStatus" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paymentStatus is required"})
		return
	}

	order, err := ct.orders.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), models.PaymentStatus(body.PaymentStatus))
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			ct.logger.Error("failed to update payment status", zap.String("orderId", c.Param("id")), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": errorMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully", "order": order})
}

func (ct *OrderController) ListShippers(c *gin.Context) {
	shippers, err := ct.orders.ListShippers(c.Request.Context())
	if err != nil {
		ct.logger.Error("failed to list shippers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": shippers})
}
