package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "coinfolio/internal/errors"
	"coinfolio/internal/models"
	"coinfolio/internal/pagination"
)

// assetService handles asset catalog management.
type assetService struct {
	db *gorm.DB
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(db *gorm.DB) AssetServicer {
	return &assetService{db: db}
}

// CreateAsset adds an asset to the catalog. Symbols are uppercased and
// must be unique.
func (s *assetService) CreateAsset(name, symbol string, category models.AssetCategory, decimals int) (*models.Asset, error) {
	name = strings.TrimSpace(name)
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if name == "" || symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset name and symbol are required")
	}
	switch category {
	case models.AssetCategoryCrypto, models.AssetCategoryGold, models.AssetCategoryFiat:
	default:
		return nil, apperrors.ErrInvalidCategory
	}
	if decimals < 0 || decimals > 18 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "decimals must be between 0 and 18")
	}

	var count int64
	s.db.Model(&models.Asset{}).Where("symbol = ?", symbol).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateSymbol
	}

	asset := &models.Asset{
		Name:     name,
		Symbol:   symbol,
		Category: category,
		Decimals: decimals,
	}
	if err := s.db.Create(asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return asset, nil
}

// GetAssets returns a paginated list of catalog assets ordered by
// category then symbol.
func (s *assetService) GetAssets(page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Asset{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.Asset
	if err := s.db.Order("category, symbol").
		Scopes(pagination.Paginate(page)).Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(assets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAssetByID retrieves an asset by ID.
func (s *assetService) GetAssetByID(assetID uint) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}

// UpdateAsset changes display metadata only. Symbol and category are
// fixed once the asset exists, since transactions may reference it.
func (s *assetService) UpdateAsset(assetID uint, name string, decimals int) (*models.Asset, error) {
	asset, err := s.GetAssetByID(assetID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset name is required")
	}
	if decimals < 0 || decimals > 18 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "decimals must be between 0 and 18")
	}

	if err := s.db.Model(asset).Updates(map[string]interface{}{
		"name":     name,
		"decimals": decimals,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return asset, nil
}
