package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "coinfolio/internal/errors"
	"coinfolio/internal/models"
)

var oneHundred = decimal.NewFromInt(100)

// ensureHolding idempotently creates a zero-valued holding row for the
// (user, asset) pair. Runs on the given handle so the committer can call
// it inside its transaction.
func ensureHolding(tx *gorm.DB, userID, assetID uint) (*models.Holding, error) {
	holding := &models.Holding{UserID: userID, AssetID: assetID}
	if err := tx.Where("user_id = ? AND asset_id = ?", userID, assetID).
		FirstOrCreate(holding).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holding, nil
}

// holdingService handles per-asset plan management.
type holdingService struct {
	db           *gorm.DB
	assetService AssetServicer
}

// NewHoldingService creates a new HoldingServicer.
func NewHoldingService(db *gorm.DB, assetService AssetServicer) HoldingServicer {
	return &holdingService{db: db, assetService: assetService}
}

// SetPlan upserts the user's plan for an asset: target allocation,
// planned initial investment and monthly DCA amount. The holding row is
// created zero-valued when the pair is touched for the first time;
// quantity and invested capital are only ever changed by the committer.
func (s *holdingService) SetPlan(userID, assetID uint, targetPct, initial, dca decimal.Decimal) (*models.Holding, error) {
	if targetPct.IsNegative() || targetPct.GreaterThan(oneHundred) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target allocation must be between 0 and 100")
	}
	if initial.IsNegative() || dca.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "initial investment and DCA must be non-negative")
	}

	if _, err := s.assetService.GetAssetByID(assetID); err != nil {
		return nil, err
	}

	var holding *models.Holding
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		holding, txErr = ensureHolding(tx, userID, assetID)
		if txErr != nil {
			return txErr
		}

		if txErr := tx.Model(holding).Updates(map[string]interface{}{
			"target_allocation_pct": targetPct,
			"initial_investment":    initial,
			"dca_per_month":         dca,
		}).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getHolding(userID, holding.ID)
}

// GetUserHoldings returns all of a user's holdings with assets preloaded
// and latest prices populated, ordered by category then symbol.
func (s *holdingService) GetUserHoldings(userID uint) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.db.Preload("Asset").
		Joins("JOIN assets ON assets.id = holdings.asset_id").
		Where("holdings.user_id = ?", userID).
		Order("assets.category, assets.symbol").
		Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	assetIDs := make([]uint, len(holdings))
	for i := range holdings {
		assetIDs[i] = holdings[i].AssetID
	}
	prices, err := latestPrices(s.db, assetIDs)
	if err != nil {
		return nil, err
	}
	for i := range holdings {
		holdings[i].LatestPrice = prices[holdings[i].AssetID]
	}

	return holdings, nil
}

// DeleteHolding removes a plan row. The asset's transactions are kept:
// they are the audit trail, and a future transaction on the same asset
// recreates the holding from zero.
func (s *holdingService) DeleteHolding(userID, holdingID uint) error {
	var holding models.Holding
	if err := s.db.Where("id = ? AND user_id = ?", holdingID, userID).First(&holding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrHoldingNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Hard delete: the unique (user, asset) index must stay free for a
	// future transaction to recreate the holding from zero.
	if err := s.db.Unscoped().Delete(&holding).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// getHolding reloads a holding with its asset and latest price.
func (s *holdingService) getHolding(userID, holdingID uint) (*models.Holding, error) {
	var holding models.Holding
	if err := s.db.Preload("Asset").
		Where("id = ? AND user_id = ?", holdingID, userID).
		First(&holding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	prices, err := latestPrices(s.db, []uint{holding.AssetID})
	if err != nil {
		return nil, err
	}
	holding.LatestPrice = prices[holding.AssetID]

	return &holding, nil
}
