package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is a manually logged price for an asset. Immutable
// time-series data: no Base embed, no soft deletes. The latest price of
// an asset is the row with the greatest (recorded_at, id) pair, so among
// equal timestamps the most recently inserted row wins.
type PricePoint struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	AssetID    uint            `gorm:"not null;index" json:"asset_id"`
	Price      decimal.Decimal `gorm:"type:numeric(32,12);not null" json:"price"`
	RecordedAt time.Time       `gorm:"not null" json:"recorded_at"`
	CreatedAt  time.Time       `json:"created_at"`

	Asset Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}
