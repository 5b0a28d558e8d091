package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recordstore/services"
)

type OrderController struct {
	orders     *services.OrderService
	progressor *services.Progressor
	logger     *zap.Logger
}

func NewOrderController(orders *services.OrderService, progressor *services.Progressor, logger *zap.Logger) *OrderController {
	return &OrderController{orders: orders, progressor: progressor, logger: logger}
}

// Checkout converts the caller's cart into an order. It either succeeds
// with the complete order or fails with one specific reason, never a
// partially-built order.
func (ct *OrderController) Checkout(c *gin.Context) {
	var body struct {
		Address       string `json:"address" binding:"required"`
		PaymentMethod string `json:"paymentMethod" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address and paymentMethod are required"})
		return
	}

	userID := c.GetString("userId")
	order, err := ct.orders.CreateOrder(c.Request.Context(), userID, body.Address, body.PaymentMethod)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			ct.logger.Error("checkout failed", zap.String("userId", userID), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": errorMessage(err, status)})
		return
	}

	ct.progressor.Schedule(order)

	c.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "order": order})
}

func (ct *OrderController) GetOrder(c *gin.Context) {
	order, err := ct.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			ct.logger.Error("failed to fetch order", zap.String("orderId", c.Param("id")), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": errorMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "order": order})
}

func (ct *OrderController) GetUserOrders(c *gin.Context) {
	userID := c.GetString("userId")

	orders, err := ct.orders.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			ct.logger.Error("failed to list orders", zap.String("userId", userID), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": errorMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "orders": orders})
}
