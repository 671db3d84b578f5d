package models

import "github.com/shopspring/decimal"

// Holding is the per-user-per-asset running aggregate of quantity owned
// and invested capital at cost, together with the user's plan for that
// asset (target allocation, initial investment, monthly DCA amount).
//
// TargetAllocationPct is what the user configured; RealizedAllocationPct
// is recomputed from current value on every transaction commit. They are
// deliberately separate columns so a commit never clobbers the plan.
type Holding struct {
	Base
	UserID  uint `gorm:"not null;uniqueIndex:uq_holdings_user_asset" json:"user_id"`
	AssetID uint `gorm:"not null;uniqueIndex:uq_holdings_user_asset" json:"asset_id"`

	Quantity decimal.Decimal `gorm:"type:numeric(32,12);not null" json:"quantity"`
	Invested decimal.Decimal `gorm:"type:numeric(32,12);not null" json:"invested"`

	TargetAllocationPct   decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"target_allocation_pct"`
	RealizedAllocationPct decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"realized_allocation_pct"`
	InitialInvestment     decimal.Decimal `gorm:"type:numeric(32,12);not null" json:"initial_investment"`
	DCAPerMonth           decimal.Decimal `gorm:"type:numeric(32,12);not null" json:"dca_per_month"`

	// Populated at query time from price_points, not stored.
	LatestPrice decimal.Decimal `gorm:"-" json:"latest_price"`

	Asset Asset `gorm:"foreignKey:AssetID" json:"asset"`
}
