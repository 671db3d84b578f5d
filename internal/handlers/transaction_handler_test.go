package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "coinfolio/internal/errors"
	"coinfolio/internal/models"
	"coinfolio/internal/pagination"
	"coinfolio/internal/services"
)

// --- mock transaction service ---

type mockTransactionService struct {
	commitFn          func(userID, assetID uint, txType models.TransactionType, quantity, unitPrice decimal.Decimal, date time.Time, reason string) (*models.Transaction, error)
	getTransactionsFn func(userID uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	totalsFn          func(userID uint) (*services.TransactionTotals, error)
}

func (m *mockTransactionService) Commit(userID, assetID uint, txType models.TransactionType, quantity, unitPrice decimal.Decimal, date time.Time, reason string) (*models.Transaction, error) {
	if m.commitFn != nil {
		return m.commitFn(userID, assetID, txType, quantity, unitPrice, date, reason)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetTransactions(userID uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getTransactionsFn != nil {
		return m.getTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) Totals(userID uint) (*services.TransactionTotals, error) {
	if m.totalsFn != nil {
		return m.totalsFn(userID)
	}
	return &services.TransactionTotals{}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/transactions", handler.CommitTransaction)
	auth.GET("/transactions", handler.GetTransactions)
	auth.GET("/transactions/totals", handler.GetTotals)
	return r
}

func TestTransactionHandler_CommitTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		txSvc := &mockTransactionService{
			commitFn: func(userID, assetID uint, txType models.TransactionType, quantity, unitPrice decimal.Decimal, _ time.Time, _ string) (*models.Transaction, error) {
				return &models.Transaction{
					ID:        1,
					UserID:    userID,
					AssetID:   assetID,
					Type:      txType,
					Quantity:  quantity,
					UnitPrice: unitPrice,
				}, nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"asset_id":1,"type":"BUY","quantity":2,"unit_price":100.5}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		tx := result["transaction"].(map[string]interface{})
		if tx["type"] != "BUY" {
			t.Errorf("expected type BUY, got %v", tx["type"])
		}
	})

	t.Run("returns 400 on missing asset_id", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"type":"BUY","quantity":2,"unit_price":100}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"asset_id":1,"type":"TRANSFER","quantity":2,"unit_price":100}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on zero quantity", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"asset_id":1,"type":"BUY","quantity":0,"unit_price":100}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on oversell", func(t *testing.T) {
		txSvc := &mockTransactionService{
			commitFn: func(_, _ uint, _ models.TransactionType, _, _ decimal.Decimal, _ time.Time, _ string) (*models.Transaction, error) {
				return nil, apperrors.ErrInsufficientHolding
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"asset_id":1,"type":"SELL","quantity":5,"unit_price":100}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INSUFFICIENT_HOLDING")
	})

	t.Run("returns 404 when asset not found", func(t *testing.T) {
		txSvc := &mockTransactionService{
			commitFn: func(_, _ uint, _ models.TransactionType, _, _ decimal.Decimal, _ time.Time, _ string) (*models.Transaction, error) {
				return nil, apperrors.ErrAssetNotFound
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"asset_id":999,"type":"BUY","quantity":1,"unit_price":100}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		var gotFilter services.TransactionFilter
		txSvc := &mockTransactionService{
			getTransactionsFn: func(_ uint, _ pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?type=SELL&asset_id=3&from=2026-01-01&to=2026-01-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.Type != models.TransactionTypeSell {
			t.Errorf("expected type SELL, got %s", gotFilter.Type)
		}
		if gotFilter.AssetID == nil || *gotFilter.AssetID != 3 {
			t.Errorf("expected asset filter 3, got %v", gotFilter.AssetID)
		}
		if gotFilter.FromDate == nil || gotFilter.ToDate == nil {
			t.Fatal("expected both date bounds to be set")
		}
	})

	t.Run("returns 400 when type is missing", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?type=BUY&from=01-02-2026", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTotals(t *testing.T) {
	t.Run("returns totals", func(t *testing.T) {
		txSvc := &mockTransactionService{
			totalsFn: func(_ uint) (*services.TransactionTotals, error) {
				return &services.TransactionTotals{
					TotalBuy:  decimal.NewFromInt(330),
					TotalSell: decimal.NewFromInt(400),
				}, nil
			},
		}
		handler := NewTransactionHandler(txSvc)
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/totals", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		totals := result["totals"].(map[string]interface{})
		if totals["total_buy"] == nil {
			t.Error("expected total_buy in response")
		}
	})
}
