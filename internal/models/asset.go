package models

// AssetCategory represents the broad class of a tracked asset.
type AssetCategory string

const (
	AssetCategoryCrypto AssetCategory = "CRYPTO"
	AssetCategoryGold   AssetCategory = "GOLD"
	AssetCategoryFiat   AssetCategory = "FIAT"
)

// Asset represents an entry in the asset catalog. Once transactions
// reference an asset only its display metadata may change.
type Asset struct {
	Base
	Name     string        `gorm:"not null" json:"name"`
	Symbol   string        `gorm:"not null;uniqueIndex" json:"symbol"`
	Category AssetCategory `gorm:"not null" json:"category"`
	// Decimals is the display precision for quantities of this asset.
	Decimals int `gorm:"not null;default:8" json:"decimals"`
}
