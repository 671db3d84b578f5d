package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "coinfolio/internal/errors"
	"coinfolio/internal/ledger"
	"coinfolio/internal/models"
	"coinfolio/internal/pagination"
	"coinfolio/internal/userlock"
)

// transactionService is the transactional boundary of the portfolio
// engine: it validates a BUY/SELL request, applies it to the holding via
// average-cost accounting, appends the immutable transaction record and
// recalculates the user's realized allocation, all as one atomic unit.
type transactionService struct {
	db           *gorm.DB
	assetService AssetServicer
	locks        *userlock.Registry
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, assetService AssetServicer, locks *userlock.Registry) TransactionServicer {
	return &transactionService{
		db:           db,
		assetService: assetService,
		locks:        locks,
	}
}

// Commit validates and applies a transaction. All commits of one user
// are serialized by a keyed lock held across the whole database
// transaction, including the allocation recalculation, because that
// recalculation touches every holding of the user. On any failure the
// database rolls back and no partial state is observable.
func (s *transactionService) Commit(
	userID, assetID uint,
	txType models.TransactionType,
	quantity, unitPrice decimal.Decimal,
	date time.Time,
	reason string,
) (*models.Transaction, error) {
	// Preconditions, checked before any mutation.
	if txType != models.TransactionTypeBuy && txType != models.TransactionTypeSell {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if !quantity.IsPositive() || !unitPrice.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity and unit price must be greater than 0")
	}

	asset, err := s.assetService.GetAssetByID(assetID)
	if err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = time.Now()
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	var transaction *models.Transaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		holding, txErr := ensureHolding(tx, userID, assetID)
		if txErr != nil {
			return txErr
		}

		position := ledger.Position{
			Quantity: holding.Quantity,
			Invested: holding.Invested,
		}
		if txType == models.TransactionTypeBuy {
			position = ledger.ApplyBuy(position, quantity, unitPrice)
		} else {
			position, txErr = ledger.ApplySell(position, quantity)
			if errors.Is(txErr, ledger.ErrInsufficientQuantity) {
				return apperrors.ErrInsufficientHolding
			}
			if txErr != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
			}
		}

		transaction = &models.Transaction{
			UserID:    userID,
			AssetID:   assetID,
			Type:      txType,
			Quantity:  quantity,
			UnitPrice: unitPrice,
			Date:      date,
			Reason:    reason,
		}
		if txErr := tx.Create(transaction).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		if txErr := tx.Model(holding).Updates(map[string]interface{}{
			"quantity": position.Quantity,
			"invested": position.Invested,
		}).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		return recalculateAllocations(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	transaction.Asset = *asset
	return transaction, nil
}

// recalculateAllocations recomputes each holding's realized share of the
// user's total current value and persists it. Holdings without price
// history are valued at zero. Shares sum to 100 (within 2dp rounding)
// whenever the total is positive, otherwise every share is zero.
func recalculateAllocations(tx *gorm.DB, userID uint) error {
	var holdings []models.Holding
	if err := tx.Where("user_id = ?", userID).Find(&holdings).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	assetIDs := make([]uint, len(holdings))
	for i := range holdings {
		assetIDs[i] = holdings[i].AssetID
	}
	prices, err := latestPrices(tx, assetIDs)
	if err != nil {
		return err
	}

	totalValue := decimal.Zero
	values := make([]decimal.Decimal, len(holdings))
	for i := range holdings {
		values[i] = holdings[i].Quantity.Mul(prices[holdings[i].AssetID])
		totalValue = totalValue.Add(values[i])
	}

	for i := range holdings {
		share := decimal.Zero
		if totalValue.IsPositive() {
			share = values[i].Div(totalValue).Mul(oneHundred).Round(2)
		}
		if err := tx.Model(&models.Holding{}).
			Where("id = ?", holdings[i].ID).
			Update("realized_allocation_pct", share).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return nil
}

// GetTransactions returns a paginated, filtered list of the user's
// transactions, newest first. The type filter is required; the date
// bounds are date-only and widened to cover the whole day on both ends.
func (s *transactionService) GetTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if filter.Type != models.TransactionTypeBuy && filter.Type != models.TransactionTypeSell {
		return nil, apperrors.ErrInvalidTransactionType
	}

	page.Defaults()

	base := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, filter.Type)
	if filter.AssetID != nil {
		base = base.Where("asset_id = ?", *filter.AssetID)
	}
	if filter.FromDate != nil {
		base = base.Where("date >= ?", startOfDay(*filter.FromDate))
	}
	if filter.ToDate != nil {
		base = base.Where("date < ?", startOfDay(*filter.ToDate).AddDate(0, 0, 1))
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Asset").
		Order("date DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Totals sums gross BUY and SELL value across all of a user's
// transactions.
func (s *transactionService) Totals(userID uint) (*TransactionTotals, error) {
	var row struct {
		TotalBuy  decimal.Decimal
		TotalSell decimal.Decimal
	}

	if err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN type = 'BUY' THEN quantity * unit_price ELSE 0 END), 0) AS total_buy, "+
			"COALESCE(SUM(CASE WHEN type = 'SELL' THEN quantity * unit_price ELSE 0 END), 0) AS total_sell").
		Where("user_id = ?", userID).
		Scan(&row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &TransactionTotals{TotalBuy: row.TotalBuy, TotalSell: row.TotalSell}, nil
}

// startOfDay truncates a timestamp to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
