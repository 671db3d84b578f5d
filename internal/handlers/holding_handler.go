package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "coinfolio/internal/errors"
	"coinfolio/internal/services"
)

// HoldingHandler handles per-asset plan management.
type HoldingHandler struct {
	holdingService services.HoldingServicer
}

// NewHoldingHandler creates a new HoldingHandler.
func NewHoldingHandler(holdingService services.HoldingServicer) *HoldingHandler {
	return &HoldingHandler{holdingService: holdingService}
}

// SetPlanRequest represents the request payload for configuring a plan.
// Touching a new asset implicitly creates its zero-valued holding.
type SetPlanRequest struct {
	AssetID             uint    `json:"asset_id" binding:"required"`
	TargetAllocationPct float64 `json:"target_allocation_pct" binding:"min=0,max=100"`
	InitialInvestment   float64 `json:"initial_investment" binding:"min=0"`
	DCAPerMonth         float64 `json:"dca_per_month" binding:"min=0"`
}

// SetPlan upserts a user's plan for an asset.
// @Summary     Set holding plan
// @Description Configure target allocation, initial investment and monthly DCA for an asset
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetPlanRequest true "Plan"
// @Success     200 {object} models.Holding "Plan saved"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /holdings/plan [put]
func (h *HoldingHandler) SetPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	holding, err := h.holdingService.SetPlan(
		userID, req.AssetID,
		decimal.NewFromFloat(req.TargetAllocationPct),
		decimal.NewFromFloat(req.InitialInvestment),
		decimal.NewFromFloat(req.DCAPerMonth),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// GetHoldings lists the user's holdings with latest prices.
// @Summary     List holdings
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Holding
// @Router      /holdings [get]
func (h *HoldingHandler) GetHoldings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdings, err := h.holdingService.GetUserHoldings(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holdings": holdings})
}

// DeleteHolding removes a plan row. Transactions are kept.
// @Summary     Delete holding
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Holding ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Router      /holdings/{id} [delete]
func (h *HoldingHandler) DeleteHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.holdingService.DeleteHolding(userID, holdingID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
