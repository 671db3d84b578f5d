package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "coinfolio/internal/errors"
	"coinfolio/internal/models"
)

// projectionMonths is the horizon of the DCA projection: 4 years.
const projectionMonths = 48

var projectionMonthsDec = decimal.NewFromInt(projectionMonths)

// summaryService builds the read-only aggregations for display. It
// never mutates state; calling it twice without an intervening commit
// yields identical output.
type summaryService struct {
	db                 *gorm.DB
	transactionService TransactionServicer
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB, transactionService TransactionServicer) SummaryServicer {
	return &summaryService{db: db, transactionService: transactionService}
}

// Summary joins each holding with its asset and latest price and
// computes current value and unrealized P/L, plus portfolio totals.
func (s *summaryService) Summary(userID uint) (*PortfolioSummary, error) {
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

	summary := &PortfolioSummary{Items: make([]SummaryItem, 0, len(holdings))}
	for i := range holdings {
		h := &holdings[i]
		price := prices[h.AssetID]
		currentValue := h.Quantity.Mul(price)
		dca4y := h.DCAPerMonth.Mul(projectionMonthsDec)

		summary.Items = append(summary.Items, SummaryItem{
			HoldingID:             h.ID,
			AssetID:               h.AssetID,
			Name:                  h.Asset.Name,
			Symbol:                h.Asset.Symbol,
			Category:              h.Asset.Category,
			Decimals:              h.Asset.Decimals,
			TargetAllocationPct:   h.TargetAllocationPct,
			RealizedAllocationPct: h.RealizedAllocationPct,
			InitialInvestment:     h.InitialInvestment,
			DCAPerMonth:           h.DCAPerMonth,
			DCA4YTotal:            dca4y,
			Quantity:              h.Quantity,
			LatestPrice:           price,
			Invested:              h.Invested,
			CurrentValue:          currentValue,
			ProfitLoss:            currentValue.Sub(h.Invested),
		})

		summary.Totals.InitialInvestment = summary.Totals.InitialInvestment.Add(h.InitialInvestment)
		summary.Totals.DCA4YTotal = summary.Totals.DCA4YTotal.Add(dca4y)
		summary.Totals.Invested = summary.Totals.Invested.Add(h.Invested)
		summary.Totals.CurrentValue = summary.Totals.CurrentValue.Add(currentValue)
	}
	summary.Totals.ProfitLoss = summary.Totals.CurrentValue.Sub(summary.Totals.Invested)

	return summary, nil
}

// Projection produces the 48-month DCA running total: a linear model
// starting from the summed planned initial investment and growing by the
// summed monthly DCA amount each month. No price appreciation is
// assumed. Each point is rounded to 2 decimal places.
func (s *summaryService) Projection(userID uint) (*DCAProjection, error) {
	var plans []models.Holding
	if err := s.db.Select("dca_per_month", "initial_investment").
		Where("user_id = ?", userID).
		Find(&plans).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	monthlyTotal := decimal.Zero
	initialTotal := decimal.Zero
	for i := range plans {
		monthlyTotal = monthlyTotal.Add(plans[i].DCAPerMonth)
		initialTotal = initialTotal.Add(plans[i].InitialInvestment)
	}

	projection := &DCAProjection{
		Labels: make([]string, 0, projectionMonths),
		Values: make([]decimal.Decimal, 0, projectionMonths),
	}

	running := initialTotal
	for month := 1; month <= projectionMonths; month++ {
		running = running.Add(monthlyTotal)
		projection.Labels = append(projection.Labels, fmt.Sprintf("M%d", month))
		projection.Values = append(projection.Values, running.Round(2))
	}

	return projection, nil
}

// Dashboard bundles summary, projection and transaction totals into the
// single payload the dashboard page consumes.
func (s *summaryService) Dashboard(userID uint) (*Dashboard, error) {
	summary, err := s.Summary(userID)
	if err != nil {
		return nil, err
	}
	projection, err := s.Projection(userID)
	if err != nil {
		return nil, err
	}
	totals, err := s.transactionService.Totals(userID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Summary:      summary,
		Projection:   projection,
		Transactions: totals,
	}, nil
}
