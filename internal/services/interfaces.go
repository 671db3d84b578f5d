package services

import (
	"time"

	"github.com/shopspring/decimal"

	"coinfolio/internal/models"
	"coinfolio/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// AssetServicer defines the contract for asset catalog management.
type AssetServicer interface {
	CreateAsset(name, symbol string, category models.AssetCategory, decimals int) (*models.Asset, error)
	GetAssets(page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	GetAssetByID(assetID uint) (*models.Asset, error)
	UpdateAsset(assetID uint, name string, decimals int) (*models.Asset, error)
}

// AssetPrice pairs an asset with its latest logged price, if any.
type AssetPrice struct {
	Asset      models.Asset     `json:"asset"`
	Price      *decimal.Decimal `json:"price"`
	RecordedAt *time.Time       `json:"recorded_at"`
}

// PriceServicer defines the contract for the manual price log and the
// latest-price oracle shared by every valuation path.
type PriceServicer interface {
	RecordPrice(assetID uint, price decimal.Decimal, recordedAt time.Time) (*models.PricePoint, error)
	LatestPrices(assetIDs []uint) (map[uint]decimal.Decimal, error)
	ListLatest() ([]AssetPrice, error)
}

// HoldingServicer defines the contract for per-asset plan management.
type HoldingServicer interface {
	SetPlan(userID, assetID uint, targetPct, initial, dca decimal.Decimal) (*models.Holding, error)
	GetUserHoldings(userID uint) ([]models.Holding, error)
	DeleteHolding(userID, holdingID uint) error
}

// TransactionFilter holds filter parameters for listing transactions.
// Type is required; the date bounds are date-only and inclusive, widened
// to full-day timestamps by the service.
type TransactionFilter struct {
	Type     models.TransactionType
	AssetID  *uint
	FromDate *time.Time
	ToDate   *time.Time
}

// TransactionTotals aggregates gross BUY and SELL value over all of a
// user's transactions.
type TransactionTotals struct {
	TotalBuy  decimal.Decimal `json:"total_buy"`
	TotalSell decimal.Decimal `json:"total_sell"`
}

// TransactionServicer defines the contract for the transaction committer
// and the read-only transaction query surface.
type TransactionServicer interface {
	Commit(userID, assetID uint, txType models.TransactionType, quantity, unitPrice decimal.Decimal, date time.Time, reason string) (*models.Transaction, error)
	GetTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	Totals(userID uint) (*TransactionTotals, error)
}

// SummaryItem is one holding of the portfolio summary, joined with its
// asset and valued at the latest known price.
type SummaryItem struct {
	HoldingID             uint                 `json:"holding_id"`
	AssetID               uint                 `json:"asset_id"`
	Name                  string               `json:"name"`
	Symbol                string               `json:"symbol"`
	Category              models.AssetCategory `json:"category"`
	Decimals              int                  `json:"decimals"`
	TargetAllocationPct   decimal.Decimal      `json:"target_allocation_pct"`
	RealizedAllocationPct decimal.Decimal      `json:"realized_allocation_pct"`
	InitialInvestment     decimal.Decimal      `json:"initial_investment"`
	DCAPerMonth           decimal.Decimal      `json:"dca_per_month"`
	DCA4YTotal            decimal.Decimal      `json:"dca_4y_total"`
	Quantity              decimal.Decimal      `json:"quantity"`
	LatestPrice           decimal.Decimal      `json:"latest_price"`
	Invested              decimal.Decimal      `json:"invested_total"`
	CurrentValue          decimal.Decimal      `json:"current_value"`
	ProfitLoss            decimal.Decimal      `json:"profit_loss"`
}

// SummaryTotals aggregates the summary across all holdings.
type SummaryTotals struct {
	InitialInvestment decimal.Decimal `json:"initial_investment"`
	DCA4YTotal        decimal.Decimal `json:"dca_4y_total"`
	Invested          decimal.Decimal `json:"invested_total"`
	CurrentValue      decimal.Decimal `json:"current_value"`
	ProfitLoss        decimal.Decimal `json:"profit_loss"`
}

// PortfolioSummary is the summary payload consumed by rendering clients.
type PortfolioSummary struct {
	Items  []SummaryItem `json:"items"`
	Totals SummaryTotals `json:"totals"`
}

// DCAProjection is a 48-month running total of planned investment.
type DCAProjection struct {
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
}

// Dashboard bundles everything the dashboard page renders in one read.
type Dashboard struct {
	Summary      *PortfolioSummary  `json:"summary"`
	Projection   *DCAProjection     `json:"projection"`
	Transactions *TransactionTotals `json:"transactions"`
}

// SummaryServicer defines the read-only aggregation surface.
type SummaryServicer interface {
	Summary(userID uint) (*PortfolioSummary, error)
	Projection(userID uint) (*DCAProjection, error)
	Dashboard(userID uint) (*Dashboard, error)
}
