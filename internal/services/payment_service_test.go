// internal/services/payment_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droplinked/marketplace-backend/internal/models"
)

func TestSplitSharesConservation(t *testing.T) {
	amounts := []int64{1, 2, 3, 99, 100, 101, 999, 10000, 123457}
	rates := []int64{0, 1, 250, 333, 500, 2500, 5000, 9999, 10000}

	for _, amount := range amounts {
		for _, rate := range rates {
			producerShare, publisherShare := SplitShares(amount, rate)
			assert.Equal(t, amount, producerShare+publisherShare,
				"amount=%d rate=%d", amount, rate)
			assert.GreaterOrEqual(t, producerShare, int64(0))
			assert.GreaterOrEqual(t, publisherShare, int64(0))
		}
	}
}

func TestSplitSharesFloorsPublisherShare(t *testing.T) {
	// 100 * 333 / 10000 = 3.33 floors to 3; the remainder stays with the
	// producer.
	producerShare, publisherShare := SplitShares(100, 333)
	assert.Equal(t, int64(3), publisherShare)
	assert.Equal(t, int64(97), producerShare)
}

func TestSplitSharesBoundaryRates(t *testing.T) {
	producerShare, publisherShare := SplitShares(1000, 0)
	assert.Equal(t, int64(1000), producerShare)
	assert.Equal(t, int64(0), publisherShare)

	producerShare, publisherShare = SplitShares(1000, RateDenominator)
	assert.Equal(t, int64(0), producerShare)
	assert.Equal(t, int64(1000), publisherShare)
}

func TestSplitSharesSmallAmounts(t *testing.T) {
	// Below 1/rate of the denominator everything rounds to the producer.
	producerShare, publisherShare := SplitShares(1, 500)
	assert.Equal(t, int64(1), producerShare)
	assert.Equal(t, int64(0), publisherShare)
}

func TestSettleWithAcceptedPublisher(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	publisher := newAccountID(t)
	buyer := newAccountID(t)

	product, err := m.marketplace.Mint(producer, &MintRequest{
		ContentURI:     "ipfs://QmContent",
		UnitPrice:      100,
		CommissionRate: 1000, // 10%
		Quantity:       50,
	})
	require.NoError(t, err)

	request, err := m.marketplace.PublishRequest(publisher, producer, product.TokenID)
	require.NoError(t, err)
	_, err = m.marketplace.ApproveRequest(producer, request.ID)
	require.NoError(t, err)

	settlement, err := m.marketplace.Settle(&SettleRequest{
		BuyerID:    buyer,
		TokenID:    product.TokenID,
		PaidAmount: 1005,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1000), settlement.CommissionRate)
	assert.Equal(t, int64(100), settlement.PublisherShare) // 1005*1000/10000 = 100.5 -> 100
	assert.Equal(t, int64(905), settlement.ProducerShare)
	require.NotNil(t, settlement.PublisherID)
	assert.Equal(t, publisher, *settlement.PublisherID)
	assert.Equal(t, models.SettlementStatusCompleted, settlement.Status)

	require.Len(t, settlement.Entries, 2)

	producerBalance, err := m.payments.GetEarningsBalance(producer)
	require.NoError(t, err)
	assert.Equal(t, int64(905), producerBalance)

	publisherBalance, err := m.payments.GetEarningsBalance(publisher)
	require.NoError(t, err)
	assert.Equal(t, int64(100), publisherBalance)
}

func TestSettleWithoutPublisherPaysProducerInFull(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	buyer := newAccountID(t)

	product, err := m.marketplace.Mint(producer, &MintRequest{
		ContentURI:     "ipfs://QmContent",
		UnitPrice:      100,
		CommissionRate: 2500,
		Quantity:       50,
	})
	require.NoError(t, err)

	settlement, err := m.marketplace.Settle(&SettleRequest{
		BuyerID:    buyer,
		TokenID:    product.TokenID,
		PaidAmount: 1000,
	})
	require.NoError(t, err)

	assert.Nil(t, settlement.PublisherID)
	assert.Equal(t, int64(0), settlement.CommissionRate)
	assert.Equal(t, int64(1000), settlement.ProducerShare)
	assert.Equal(t, int64(0), settlement.PublisherShare)
	require.Len(t, settlement.Entries, 1)
	assert.Equal(t, models.EntryRoleProducer, settlement.Entries[0].Role)
}

func TestSettlePendingRequestDoesNotEarnCommission(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	publisher := newAccountID(t)

	product, err := m.marketplace.Mint(producer, &MintRequest{
		ContentURI:     "ipfs://QmContent",
		UnitPrice:      100,
		CommissionRate: 1000,
		Quantity:       50,
	})
	require.NoError(t, err)

	_, err = m.marketplace.PublishRequest(publisher, producer, product.TokenID)
	require.NoError(t, err)

	settlement, err := m.marketplace.Settle(&SettleRequest{
		BuyerID:    newAccountID(t),
		TokenID:    product.TokenID,
		PaidAmount: 1000,
	})
	require.NoError(t, err)
	assert.Nil(t, settlement.PublisherID)
	assert.Equal(t, int64(1000), settlement.ProducerShare)
}

func TestSettleUnknownTokenFails(t *testing.T) {
	m := setupMarketplace(t)

	_, err := m.marketplace.Settle(&SettleRequest{
		BuyerID:    newAccountID(t),
		TokenID:    424242,
		PaidAmount: 100,
	})
	assert.ErrorIs(t, err, ErrSettlementFailed)
}

func TestSettleValidatesAmount(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)

	product, err := m.marketplace.Mint(producer, &MintRequest{
		ContentURI:     "ipfs://QmContent",
		UnitPrice:      100,
		CommissionRate: 1000,
		Quantity:       50,
	})
	require.NoError(t, err)

	_, err = m.marketplace.Settle(&SettleRequest{
		BuyerID:    newAccountID(t),
		TokenID:    product.TokenID,
		PaidAmount: 0,
	})
	assert.ErrorIs(t, err, ErrSettlementFailed)
}

func TestSettleFailureLeavesNoRows(t *testing.T) {
	m := setupMarketplace(t)

	_, err := m.marketplace.Settle(&SettleRequest{
		BuyerID:    newAccountID(t),
		TokenID:    424242,
		PaidAmount: 100,
	})
	require.Error(t, err)

	var settlements, entries int64
	require.NoError(t, m.db.Model(&models.Settlement{}).Count(&settlements).Error)
	require.NoError(t, m.db.Model(&models.LedgerEntry{}).Count(&entries).Error)
	assert.Zero(t, settlements)
	assert.Zero(t, entries)
}

func TestEarningsAccumulateAcrossSettlements(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	publisher := newAccountID(t)

	product, err := m.marketplace.Mint(producer, &MintRequest{
		ContentURI:     "ipfs://QmContent",
		UnitPrice:      100,
		CommissionRate: 5000, // 50%
		Quantity:       50,
	})
	require.NoError(t, err)

	request, err := m.marketplace.PublishRequest(publisher, producer, product.TokenID)
	require.NoError(t, err)
	_, err = m.marketplace.ApproveRequest(producer, request.ID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := m.marketplace.Settle(&SettleRequest{
			BuyerID:    newAccountID(t),
			TokenID:    product.TokenID,
			PaidAmount: 101,
		})
		require.NoError(t, err)
	}

	// Each sale: publisher 50, producer 51.
	producerBalance, err := m.payments.GetEarningsBalance(producer)
	require.NoError(t, err)
	assert.Equal(t, int64(153), producerBalance)

	publisherBalance, err := m.payments.GetEarningsBalance(publisher)
	require.NoError(t, err)
	assert.Equal(t, int64(150), publisherBalance)
}

func TestSettlementHistory(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	buyer := newAccountID(t)

	product, err := m.marketplace.Mint(producer, &MintRequest{
		ContentURI:     "ipfs://QmContent",
		UnitPrice:      100,
		CommissionRate: 1000,
		Quantity:       50,
	})
	require.NoError(t, err)

	_, err = m.marketplace.Settle(&SettleRequest{
		BuyerID:    buyer,
		TokenID:    product.TokenID,
		PaidAmount: 500,
	})
	require.NoError(t, err)

	for _, account := range []uuid.UUID{producer, buyer} {
		history, total, err := m.payments.GetSettlementHistory(account, paginationDefaults())
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, history, 1)
		assert.Equal(t, product.TokenID, history[0].TokenID)
	}

	history, total, err := m.payments.GetSettlementHistory(newAccountID(t), paginationDefaults())
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, history)
}
