package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"coinfolio/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAsset creates a crypto asset with a unique symbol.
func CreateTestAsset(t *testing.T, db *gorm.DB) *models.Asset {
	t.Helper()
	return CreateTestAssetWithCategory(t, db, models.AssetCategoryCrypto)
}

// CreateTestAssetWithCategory creates an asset of the given category.
func CreateTestAssetWithCategory(t *testing.T, db *gorm.DB, category models.AssetCategory) *models.Asset {
	t.Helper()

	n := nextID()
	asset := &models.Asset{
		Name:     fmt.Sprintf("Test Asset %d", n),
		Symbol:   fmt.Sprintf("TST%d", n),
		Category: category,
		Decimals: 8,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestHolding creates a holding with the given quantity and invested
// amount, both given as decimal strings.
func CreateTestHolding(t *testing.T, db *gorm.DB, userID, assetID uint, quantity, invested string) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		UserID:   userID,
		AssetID:  assetID,
		Quantity: mustDecimal(t, quantity),
		Invested: mustDecimal(t, invested),
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestPricePoint logs a price for the asset at the given time.
func CreateTestPricePoint(t *testing.T, db *gorm.DB, assetID uint, price string, recordedAt time.Time) *models.PricePoint {
	t.Helper()

	point := &models.PricePoint{
		AssetID:    assetID,
		Price:      mustDecimal(t, price),
		RecordedAt: recordedAt,
	}
	if err := db.Create(point).Error; err != nil {
		t.Fatalf("failed to create test price point: %v", err)
	}
	return point
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}
