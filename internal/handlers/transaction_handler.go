package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "coinfolio/internal/errors"
	"coinfolio/internal/models"
	"coinfolio/internal/pagination"
	"coinfolio/internal/services"
)

// TransactionHandler handles transaction requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CommitTransactionRequest represents the request payload for recording
// a BUY or SELL.
type CommitTransactionRequest struct {
	AssetID   uint                   `json:"asset_id" binding:"required"`
	Type      models.TransactionType `json:"type" binding:"required,transaction_type"`
	Quantity  float64                `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64                `json:"unit_price" binding:"required,gt=0"`
	Date      *time.Time             `json:"date,omitempty"`
	Reason    string                 `json:"reason" binding:"max=500"`
}

// listTransactionsQuery holds the query parameters for listing.
type listTransactionsQuery struct {
	pagination.PageRequest
	Type    string `form:"type" binding:"required,transaction_type"`
	AssetID *uint  `form:"asset_id"`
	From    string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To      string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// CommitTransaction records a BUY or SELL and updates the holding.
// @Summary     Commit transaction
// @Description Record a BUY or SELL; updates the holding and recalculates allocation atomically
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CommitTransactionRequest true "Transaction"
// @Success     201 {object} models.Transaction "Transaction committed"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient holding"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CommitTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CommitTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date := time.Time{}
	if req.Date != nil {
		date = *req.Date
	}

	transaction, err := h.transactionService.Commit(
		userID, req.AssetID, req.Type,
		decimal.NewFromFloat(req.Quantity),
		decimal.NewFromFloat(req.UnitPrice),
		date, req.Reason,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions lists the user's transactions with filters.
// @Summary     List transactions
// @Description List BUY or SELL transactions, optionally filtered by asset and inclusive date range
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       type query string true "BUY or SELL"
// @Param       asset_id query int false "Asset filter"
// @Param       from query string false "From date (YYYY-MM-DD, inclusive)"
// @Param       to query string false "To date (YYYY-MM-DD, inclusive)"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query listTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{
		Type:    models.TransactionType(query.Type),
		AssetID: query.AssetID,
	}
	if query.From != "" {
		from, _ := time.ParseInLocation("2006-01-02", query.From, time.Local)
		filter.FromDate = &from
	}
	if query.To != "" {
		to, _ := time.ParseInLocation("2006-01-02", query.To, time.Local)
		filter.ToDate = &to
	}

	transactions, err := h.transactionService.GetTransactions(userID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// GetTotals sums gross BUY and SELL value for the user.
// @Summary     Transaction totals
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.TransactionTotals
// @Router      /transactions/totals [get]
func (h *TransactionHandler) GetTotals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.transactionService.Totals(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"totals": totals})
}
