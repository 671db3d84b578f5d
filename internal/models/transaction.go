package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
)

// Transaction is an immutable append-only record of a BUY or SELL.
// Rows are never updated or deleted; holdings are derived from them
// incrementally at commit time. No Base embed, no soft deletes.
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	AssetID   uint            `gorm:"not null;index" json:"asset_id"`
	Type      TransactionType `gorm:"not null" json:"type"`
	Quantity  decimal.Decimal `gorm:"type:numeric(32,12);not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(32,12);not null" json:"unit_price"`
	Date      time.Time       `gorm:"not null" json:"date"`
	Reason    string          `json:"reason,omitempty"`
	CreatedAt time.Time       `json:"created_at"`

	Asset Asset `gorm:"foreignKey:AssetID" json:"asset"`
}
