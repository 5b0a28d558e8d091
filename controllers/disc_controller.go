package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recordstore/models"
	"recordstore/services"
)

type DiscController struct {
	catalog *services.CatalogService
	logger  *zap.Logger
}

func NewDiscController(catalog *services.CatalogService, logger *zap.Logger) *DiscController {
	return &DiscController{catalog: catalog, logger: logger}
}

func (ct *DiscController) GetDiscs(c *gin.Context) {
	discs, err := ct.catalog.ListDiscs(c.Request.Context())
	if err != nil {
		ct.logger.Error("failed to list discs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": discs})
}

func (ct *DiscController) GetDiscByID(c *gin.Context) {
	disc, err := ct.catalog.GetDisc(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			ct.logger.Error("failed to fetch disc", zap.String("discId", c.Param("id")), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": errorMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": disc})
}

// UpdateDisc is the admin-side catalog mutation; the scraper uses the
// same path when it refreshes prices.
func (ct *DiscController) UpdateDisc(c *gin.Context) {
	var body struct {
		Price *int64 `json:"price"`
		Stock *int   `json:"stock"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || (body.Price == nil && body.Stock == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price or stock is required"})
		return
	}

	var price *models.Money
	if body.Price != nil {
		p := models.Money(*body.Price)
		price = &p
	}

	disc, err := ct.catalog.UpdateDisc(c.Request.Context(), c.Param("id"), price, body.Stock)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			ct.logger.Error("failed to update disc", zap.String("discId", c.Param("id")), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": errorMessage(err, status)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Disc updated", "data": disc})
}
