package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "coinfolio/internal/errors"
	"coinfolio/internal/models"
)

// latestPrices is the single latest-price lookup shared by every
// valuation path. For each asset it picks the price point with the
// greatest (recorded_at, id) pair, so among equal timestamps the most
// recently inserted row wins. Assets with no price history are absent
// from the result map and must be valued at zero by the caller.
func latestPrices(db *gorm.DB, assetIDs []uint) (map[uint]decimal.Decimal, error) {
	if len(assetIDs) == 0 {
		return map[uint]decimal.Decimal{}, nil
	}

	type priceRow struct {
		AssetID uint
		Price   decimal.Decimal
	}
	var rows []priceRow

	latest := db.Table("price_points px").
		Select("px.id").
		Where("px.asset_id = pp.asset_id").
		Order("px.recorded_at DESC, px.id DESC").
		Limit(1)

	if err := db.Table("price_points pp").
		Select("pp.asset_id, pp.price").
		Where("pp.asset_id IN ?", assetIDs).
		Where("pp.id = (?)", latest).
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := make(map[uint]decimal.Decimal, len(rows))
	for _, r := range rows {
		result[r.AssetID] = r.Price
	}
	return result, nil
}

// priceService handles the manual price log.
type priceService struct {
	db *gorm.DB
}

// NewPriceService creates a new PriceServicer.
func NewPriceService(db *gorm.DB) PriceServicer {
	return &priceService{db: db}
}

// RecordPrice appends a price point for an asset. Price points are
// never updated or deleted.
func (s *priceService) RecordPrice(assetID uint, price decimal.Decimal, recordedAt time.Time) (*models.PricePoint, error) {
	if !price.IsPositive() {
		return nil, apperrors.ErrPricePointInvalid
	}

	var asset models.Asset
	if err := s.db.First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	point := &models.PricePoint{
		AssetID:    assetID,
		Price:      price,
		RecordedAt: recordedAt,
	}
	if err := s.db.Create(point).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	point.Asset = asset
	return point, nil
}

// LatestPrices exposes the shared latest-price lookup.
func (s *priceService) LatestPrices(assetIDs []uint) (map[uint]decimal.Decimal, error) {
	return latestPrices(s.db, assetIDs)
}

// ListLatest returns every catalog asset with its latest logged price,
// or a nil price for assets with no history yet.
func (s *priceService) ListLatest() ([]AssetPrice, error) {
	var assets []models.Asset
	if err := s.db.Order("category, symbol").Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	assetIDs := make([]uint, len(assets))
	for i := range assets {
		assetIDs[i] = assets[i].ID
	}

	type latestRow struct {
		AssetID    uint
		Price      decimal.Decimal
		RecordedAt time.Time
	}
	var rows []latestRow

	if len(assetIDs) > 0 {
		latest := s.db.Table("price_points px").
			Select("px.id").
			Where("px.asset_id = pp.asset_id").
			Order("px.recorded_at DESC, px.id DESC").
			Limit(1)

		if err := s.db.Table("price_points pp").
			Select("pp.asset_id, pp.price, pp.recorded_at").
			Where("pp.asset_id IN ?", assetIDs).
			Where("pp.id = (?)", latest).
			Scan(&rows).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	byAsset := make(map[uint]latestRow, len(rows))
	for _, r := range rows {
		byAsset[r.AssetID] = r
	}

	result := make([]AssetPrice, 0, len(assets))
	for _, asset := range assets {
		entry := AssetPrice{Asset: asset}
		if r, ok := byAsset[asset.ID]; ok {
			price := r.Price
			recordedAt := r.RecordedAt
			entry.Price = &price
			entry.RecordedAt = &recordedAt
		}
		result = append(result, entry)
	}
	return result, nil
}
