// internal/services/service_test.go
package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/droplinked/marketplace-backend/internal/config"
	"github.com/droplinked/marketplace-backend/internal/ledger"
	"github.com/droplinked/marketplace-backend/internal/models"
	"github.com/droplinked/marketplace-backend/internal/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// In-memory sqlite lives and dies with a single connection.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Product{},
		&models.PublishRequest{},
		&models.ProducerRequestIndex{},
		&models.PublisherRequestIndex{},
		&models.TokenBalance{},
		&models.Settlement{},
		&models.LedgerEntry{},
	))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
	}
}

type testMarketplace struct {
	db          *gorm.DB
	tokens      *ledger.Adapter
	registry    *RegistryService
	requests    *RequestService
	payments    *PaymentService
	marketplace *MarketplaceService
}

func setupMarketplace(t *testing.T) *testMarketplace {
	t.Helper()

	db := setupTestDB(t)
	tokens := ledger.NewAdapter(db)
	registry := NewRegistryService(db, tokens)
	requests := NewRequestService(db)
	payments := NewPaymentService(db, testConfig(), requests)

	return &testMarketplace{
		db:          db,
		tokens:      tokens,
		registry:    registry,
		requests:    requests,
		payments:    payments,
		marketplace: NewMarketplaceService(db, registry, requests, payments, tokens),
	}
}

func newAccountID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func paginationDefaults() utils.PaginationParams {
	return utils.PaginationParams{
		Page:  1,
		Limit: 20,
		Sort:  "created_at",
		Order: "desc",
	}
}
