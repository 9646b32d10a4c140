// internal/services/registry_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droplinked/marketplace-backend/internal/models"
)

func TestTokenIDDeterministic(t *testing.T) {
	a := TokenID("ipfs://QmContent", 100, 500)
	b := TokenID("ipfs://QmContent", 100, 500)
	assert.Equal(t, a, b)
}

func TestTokenIDDistinguishesTuples(t *testing.T) {
	base := TokenID("ipfs://QmContent", 100, 500)

	assert.NotEqual(t, base, TokenID("ipfs://QmOther", 100, 500))
	assert.NotEqual(t, base, TokenID("ipfs://QmContent", 101, 500))
	assert.NotEqual(t, base, TokenID("ipfs://QmContent", 100, 501))
}

func TestTokenIDNonNegative(t *testing.T) {
	uris := []string{"", "a", "ipfs://QmContent", "https://cdn.example.com/file.mp4"}
	for _, uri := range uris {
		for _, price := range []int64{1, 100, 1 << 40} {
			assert.GreaterOrEqual(t, TokenID(uri, price, 250), int64(0))
		}
	}
}

func TestMintCreatesProductAndCreditsCaller(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)

	req := &MintRequest{
		ContentURI:     "ipfs://QmContent",
		UnitPrice:      100,
		CommissionRate: 500,
		Quantity:       2000,
	}

	product, err := m.marketplace.Mint(producer, req)
	require.NoError(t, err)
	assert.Equal(t, TokenID(req.ContentURI, req.UnitPrice, req.CommissionRate), product.TokenID)
	assert.Equal(t, producer, product.OwnerProducerID)

	balance, err := m.marketplace.BalanceOf(producer, product.TokenID)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), balance)
}

func TestMintSameTupleAccumulatesSupply(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)

	req := &MintRequest{
		ContentURI:     "ipfs://QmContent",
		UnitPrice:      100,
		CommissionRate: 500,
		Quantity:       2000,
	}

	first, err := m.marketplace.Mint(producer, req)
	require.NoError(t, err)
	second, err := m.marketplace.Mint(producer, req)
	require.NoError(t, err)
	assert.Equal(t, first.TokenID, second.TokenID)

	balance, err := m.marketplace.BalanceOf(producer, first.TokenID)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), balance)

	var count int64
	require.NoError(t, m.db.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMintByAnotherAccountKeepsOriginalOwner(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	other := newAccountID(t)

	req := &MintRequest{
		ContentURI:     "ipfs://QmContent",
		UnitPrice:      100,
		CommissionRate: 500,
		Quantity:       10,
	}

	product, err := m.marketplace.Mint(producer, req)
	require.NoError(t, err)

	again, err := m.marketplace.Mint(other, req)
	require.NoError(t, err)
	assert.Equal(t, producer, again.OwnerProducerID)

	balance, err := m.marketplace.BalanceOf(other, product.TokenID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)
}

func TestMintRejectsTupleMismatch(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)

	// Simulate an id collision: a stored product occupying the id the new
	// tuple derives to, with different defining fields.
	tokenID := TokenID("ipfs://QmContent", 100, 500)
	require.NoError(t, m.db.Create(&models.Product{
		TokenID:         tokenID,
		ContentURI:      "ipfs://QmSomethingElse",
		UnitPrice:       100,
		CommissionRate:  500,
		OwnerProducerID: newAccountID(t),
	}).Error)

	_, err := m.marketplace.Mint(producer, &MintRequest{
		ContentURI:     "ipfs://QmContent",
		UnitPrice:      100,
		CommissionRate: 500,
		Quantity:       1,
	})
	assert.ErrorIs(t, err, ErrProductMismatch)
}

func TestMintValidatesInput(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)

	cases := []MintRequest{
		{ContentURI: "", UnitPrice: 100, CommissionRate: 500, Quantity: 1},
		{ContentURI: "ipfs://x", UnitPrice: 0, CommissionRate: 500, Quantity: 1},
		{ContentURI: "ipfs://x", UnitPrice: 100, CommissionRate: 10001, Quantity: 1},
		{ContentURI: "ipfs://x", UnitPrice: 100, CommissionRate: 500, Quantity: 0},
	}

	for _, req := range cases {
		req := req
		_, err := m.marketplace.Mint(producer, &req)
		assert.Error(t, err)
	}
}

func TestMetadataOf(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)

	minted, err := m.marketplace.Mint(producer, &MintRequest{
		ContentURI:     "ipfs://QmContent",
		UnitPrice:      100,
		CommissionRate: 500,
		Quantity:       5,
	})
	require.NoError(t, err)

	product, err := m.marketplace.MetadataOf(minted.TokenID)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://QmContent", product.ContentURI)
	assert.Equal(t, int64(100), product.UnitPrice)
	assert.Equal(t, int64(500), product.CommissionRate)
	assert.Equal(t, producer, product.OwnerProducerID)
}

func TestMetadataOfUnknownToken(t *testing.T) {
	m := setupMarketplace(t)

	_, err := m.marketplace.MetadataOf(12345)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
