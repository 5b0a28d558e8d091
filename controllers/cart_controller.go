package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recordstore/services"
)

type CartController struct {
	carts  *services.CartService
	logger *zap.Logger
}

func NewCartController(carts *services.CartService, logger *zap.Logger) *CartController {
	return &CartController{carts: carts, logger: logger}
}

func (ct *CartController) GetCart(c *gin.Context) {
	userID := c.GetString("userId")

	cart, err := ct.carts.GetCart(c.Request.Context(), userID)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			ct.logger.Error("failed to fetch cart", zap.String("userId", userID), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": errorMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": cart})
}

func (ct *CartController) AddToCart(c *gin.Context) {
	var body struct {
		DiscID   string `json:"discId" binding:"required"`
		Quantity int    `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID := c.GetString("userId")
	cart, err := ct.carts.AddItem(c.Request.Context(), userID, body.DiscID, body.Quantity)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			ct.logger.Error("failed to add to cart", zap.String("userId", userID), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": errorMessage(err, status)})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Added to cart", "data": cart})
}

func (ct *CartController) UpdateCartItem(c *gin.Context) {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}

	userID := c.GetString("userId")
	cart, err := ct.carts.UpdateItemQuantity(c.Request.Context(), userID, c.Param("discId"), body.Quantity)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			ct.logger.Error("failed to update cart", zap.String("userId", userID), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": errorMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart updated", "data": cart})
}

func (ct *CartController) RemoveFromCart(c *gin.Context) {
	userID := c.GetString("userId")

	cart, err := ct.carts.RemoveItem(c.Request.Context(), userID, c.Param("discId"))
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			ct.logger.Error("failed to remove from cart", zap.String("userId", userID), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": errorMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart", "data": cart})
}
