package services

import (
	"testing"
	"time"

	"coinfolio/internal/models"
	"coinfolio/internal/testutil"
	"coinfolio/internal/userlock"
)

func TestSummary(t *testing.T) {
	t.Run("values_holdings_at_latest_price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		assetSvc := NewAssetService(db)
		txSvc := NewTransactionService(db, assetSvc, userlock.New())
		holdingSvc := NewHoldingService(db, assetSvc)
		sumSvc := NewSummaryService(db, txSvc)
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db)

		_, err := holdingSvc.SetPlan(user.ID, asset.ID, dec("50"), dec("1000"), dec("200"))
		testutil.AssertNoError(t, err)
		_, err = txSvc.Commit(user.ID, asset.ID, models.TransactionTypeBuy, dec("2"), dec("100"), time.Now(), "")
		testutil.AssertNoError(t, err)
		testutil.CreateTestPricePoint(t, db, asset.ID, "150", time.Now())

		summary, err := sumSvc.Summary(user.ID)
		testutil.AssertNoError(t, err)

		if len(summary.Items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(summary.Items))
		}
		item := summary.Items[0]
		testutil.AssertDecimalEqual(t, item.Quantity, "2")
		testutil.AssertDecimalEqual(t, item.LatestPrice, "150")
		testutil.AssertDecimalEqual(t, item.Invested, "200")
		testutil.AssertDecimalEqual(t, item.CurrentValue, "300")
		testutil.AssertDecimalEqual(t, item.ProfitLoss, "100")
		testutil.AssertDecimalEqual(t, item.DCA4YTotal, "9600")
		testutil.AssertDecimalEqual(t, item.TargetAllocationPct, "50")

		testutil.AssertDecimalEqual(t, summary.Totals.Invested, "200")
		testutil.AssertDecimalEqual(t, summary.Totals.CurrentValue, "300")
		testutil.AssertDecimalEqual(t, summary.Totals.ProfitLoss, "100")
		testutil.AssertDecimalEqual(t, summary.Totals.InitialInvestment, "1000")
		testutil.AssertDecimalEqual(t, summary.Totals.DCA4YTotal, "9600")
	})

	t.Run("missing_price_values_at_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		assetSvc := NewAssetService(db)
		txSvc := NewTransactionService(db, assetSvc, userlock.New())
		sumSvc := NewSummaryService(db, txSvc)
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db)

		_, err := txSvc.Commit(user.ID, asset.ID, models.TransactionTypeBuy, dec("5"), dec("10"), time.Now(), "")
		testutil.AssertNoError(t, err)

		summary, err := sumSvc.Summary(user.ID)
		testutil.AssertNoError(t, err)

		item := summary.Items[0]
		testutil.AssertDecimalEqual(t, item.LatestPrice, "0")
		testutil.AssertDecimalEqual(t, item.CurrentValue, "0")
		testutil.AssertDecimalEqual(t, item.ProfitLoss, "-50")
	})

	t.Run("empty_portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		assetSvc := NewAssetService(db)
		txSvc := NewTransactionService(db, assetSvc, userlock.New())
		sumSvc := NewSummaryService(db, txSvc)
		user := testutil.CreateTestUser(t, db)

		summary, err := sumSvc.Summary(user.ID)
		testutil.AssertNoError(t, err)
		if len(summary.Items) != 0 {
			t.Errorf("expected no items, got %d", len(summary.Items))
		}
		testutil.AssertDecimalEqual(t, summary.Totals.CurrentValue, "0")
	})

	t.Run("is_idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		assetSvc := NewAssetService(db)
		txSvc := NewTransactionService(db, assetSvc, userlock.New())
		sumSvc := NewSummaryService(db, txSvc)
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db)

		_, err := txSvc.Commit(user.ID, asset.ID, models.TransactionTypeBuy, dec("1"), dec("100"), time.Now(), "")
		testutil.AssertNoError(t, err)
		testutil.CreateTestPricePoint(t, db, asset.ID, "120", time.Now())

		first, err := sumSvc.Summary(user.ID)
		testutil.AssertNoError(t, err)
		second, err := sumSvc.Summary(user.ID)
		testutil.AssertNoError(t, err)

		if !first.Totals.CurrentValue.Equal(second.Totals.CurrentValue) {
			t.Errorf("expected identical totals, got %s and %s",
				first.Totals.CurrentValue, second.Totals.CurrentValue)
		}
	})
}

func TestProjection(t *testing.T) {
	t.Run("48_month_running_total", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		assetSvc := NewAssetService(db)
		txSvc := NewTransactionService(db, assetSvc, userlock.New())
		holdingSvc := NewHoldingService(db, assetSvc)
		sumSvc := NewSummaryService(db, txSvc)
		user := testutil.CreateTestUser(t, db)
		assetA := testutil.CreateTestAsset(t, db)
		assetB := testutil.CreateTestAsset(t, db)

		_, err := holdingSvc.SetPlan(user.ID, assetA.ID, dec("0"), dec("1000"), dec("100"))
		testutil.AssertNoError(t, err)
		_, err = holdingSvc.SetPlan(user.ID, assetB.ID, dec("0"), dec("500"), dec("50"))
		testutil.AssertNoError(t, err)

		projection, err := sumSvc.Projection(user.ID)
		testutil.AssertNoError(t, err)

		if len(projection.Labels) != 48 || len(projection.Values) != 48 {
			t.Fatalf("expected 48 points, got %d labels and %d values",
				len(projection.Labels), len(projection.Values))
		}
		if projection.Labels[0] != "M1" || projection.Labels[47] != "M48" {
			t.Errorf("expected labels M1..M48, got %s..%s", projection.Labels[0], projection.Labels[47])
		}

		// First point already includes the first monthly contribution.
		testutil.AssertDecimalEqual(t, projection.Values[0], "1650")
		testutil.AssertDecimalEqual(t, projection.Values[47], "8700")

		for i := 1; i < len(projection.Values); i++ {
			if projection.Values[i].LessThan(projection.Values[i-1]) {
				t.Fatalf("expected non-decreasing series, values[%d]=%s < values[%d]=%s",
					i, projection.Values[i], i-1, projection.Values[i-1])
			}
		}
	})

	t.Run("rounds_each_point", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		assetSvc := NewAssetService(db)
		txSvc := NewTransactionService(db, assetSvc, userlock.New())
		holdingSvc := NewHoldingService(db, assetSvc)
		sumSvc := NewSummaryService(db, txSvc)
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db)

		_, err := holdingSvc.SetPlan(user.ID, asset.ID, dec("0"), dec("0"), dec("33.333"))
		testutil.AssertNoError(t, err)

		projection, err := sumSvc.Projection(user.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, projection.Values[0], "33.33")
		testutil.AssertDecimalEqual(t, projection.Values[1], "66.67")
		testutil.AssertDecimalEqual(t, projection.Values[2], "100")
	})

	t.Run("no_plans_is_flat_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		assetSvc := NewAssetService(db)
		txSvc := NewTransactionService(db, assetSvc, userlock.New())
		sumSvc := NewSummaryService(db, txSvc)
		user := testutil.CreateTestUser(t, db)

		projection, err := sumSvc.Projection(user.ID)
		testutil.AssertNoError(t, err)
		if len(projection.Values) != 48 {
			t.Fatalf("expected 48 points, got %d", len(projection.Values))
		}
		testutil.AssertDecimalEqual(t, projection.Values[0], "0")
		testutil.AssertDecimalEqual(t, projection.Values[47], "0")
	})
}

func TestDashboard(t *testing.T) {
	t.Run("bundles_all_sections", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		assetSvc := NewAssetService(db)
		txSvc := NewTransactionService(db, assetSvc, userlock.New())
		sumSvc := NewSummaryService(db, txSvc)
		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db)

		_, err := txSvc.Commit(user.ID, asset.ID, models.TransactionTypeBuy, dec("2"), dec("100"), time.Now(), "")
		testutil.AssertNoError(t, err)

		dashboard, err := sumSvc.Dashboard(user.ID)
		testutil.AssertNoError(t, err)

		if dashboard.Summary == nil || dashboard.Projection == nil || dashboard.Transactions == nil {
			t.Fatal("expected all dashboard sections to be populated")
		}
		testutil.AssertDecimalEqual(t, dashboard.Transactions.TotalBuy, "200")
	})
}
