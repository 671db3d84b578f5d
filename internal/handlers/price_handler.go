package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "coinfolio/internal/errors"
	"coinfolio/internal/services"
)

// PriceHandler handles the manual price log.
type PriceHandler struct {
	priceService services.PriceServicer
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(priceService services.PriceServicer) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// RecordPriceRequest represents the request payload for logging a price point.
type RecordPriceRequest struct {
	AssetID    uint       `json:"asset_id" binding:"required"`
	Price      float64    `json:"price" binding:"required,gt=0"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// RecordPrice appends a price point for an asset.
// @Summary     Record price
// @Description Manually log a price point for an asset
// @Tags        prices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecordPriceRequest true "Price point"
// @Success     201 {object} models.PricePoint "Price recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /prices [post]
func (h *PriceHandler) RecordPrice(c *gin.Context) {
	var req RecordPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	recordedAt := time.Time{}
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	point, err := h.priceService.RecordPrice(req.AssetID, decimal.NewFromFloat(req.Price), recordedAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"price_point": point})
}

// GetLatestPrices lists every asset with its latest logged price.
// @Summary     Latest prices
// @Tags        prices
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.AssetPrice
// @Router      /prices/latest [get]
func (h *PriceHandler) GetLatestPrices(c *gin.Context) {
	prices, err := h.priceService.ListLatest()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prices": prices})
}
