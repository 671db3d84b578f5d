package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coinfolio/internal/services"
)

// SummaryHandler handles the read-only aggregation endpoints.
type SummaryHandler struct {
	summaryService services.SummaryServicer
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryService services.SummaryServicer) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// GetSummary returns the per-asset summary and portfolio totals.
// @Summary     Portfolio summary
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PortfolioSummary
// @Router      /portfolio/summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.summaryService.Summary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetProjection returns the 48-month DCA projection.
// @Summary     DCA projection
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DCAProjection
// @Router      /portfolio/projection [get]
func (h *SummaryHandler) GetProjection(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projection, err := h.summaryService.Projection(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, projection)
}

// GetDashboard returns summary, projection and transaction totals in
// one payload.
// @Summary     Dashboard
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Dashboard
// @Router      /dashboard [get]
func (h *SummaryHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.summaryService.Dashboard(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
