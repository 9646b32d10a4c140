// internal/services/request_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droplinked/marketplace-backend/internal/models"
)

func mintToken(t *testing.T, m *testMarketplace, producer uuid.UUID) int64 {
	t.Helper()

	product, err := m.marketplace.Mint(producer, &MintRequest{
		ContentURI:     "ipfs://" + uuid.NewString(),
		UnitPrice:      100,
		CommissionRate: 1000,
		Quantity:       100,
	})
	require.NoError(t, err)
	return product.TokenID
}

func TestPublishRequestSetsBothIndexes(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	publisher := newAccountID(t)
	tokenID := mintToken(t, m, producer)

	request, err := m.marketplace.PublishRequest(publisher, producer, tokenID)
	require.NoError(t, err)
	assert.False(t, request.Accepted)
	assert.Equal(t, producer, request.ProducerID)
	assert.Equal(t, publisher, request.PublisherID)

	hasProducer, err := m.marketplace.ProducerHasRequest(producer, tokenID)
	require.NoError(t, err)
	assert.True(t, hasProducer)

	hasPublisher, err := m.marketplace.PublisherHasRequest(publisher, tokenID)
	require.NoError(t, err)
	assert.True(t, hasPublisher)
}

func TestPublishRequestDuplicateRejected(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	publisher := newAccountID(t)
	tokenID := mintToken(t, m, producer)

	_, err := m.marketplace.PublishRequest(publisher, producer, tokenID)
	require.NoError(t, err)

	_, err = m.marketplace.PublishRequest(publisher, producer, tokenID)
	assert.ErrorIs(t, err, ErrAlreadyRequested)
}

// A second publisher targeting the same (producer, token) pair re-sets the
// already-set producer index instead of colliding with it.
func TestPublishRequestDifferentPublishersAllowed(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	first := newAccountID(t)
	second := newAccountID(t)
	tokenID := mintToken(t, m, producer)

	_, err := m.marketplace.PublishRequest(first, producer, tokenID)
	require.NoError(t, err)
	_, err = m.marketplace.PublishRequest(second, producer, tokenID)
	require.NoError(t, err)

	hasProducer, err := m.marketplace.ProducerHasRequest(producer, tokenID)
	require.NoError(t, err)
	assert.True(t, hasProducer)

	for _, publisher := range []uuid.UUID{first, second} {
		hasPublisher, err := m.marketplace.PublisherHasRequest(publisher, tokenID)
		require.NoError(t, err)
		assert.True(t, hasPublisher)

		// The one-live-request rule still binds each publisher individually.
		_, err = m.marketplace.PublishRequest(publisher, producer, tokenID)
		assert.ErrorIs(t, err, ErrAlreadyRequested)
	}
}

func TestApproveByProducer(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	publisher := newAccountID(t)
	tokenID := mintToken(t, m, producer)

	request, err := m.marketplace.PublishRequest(publisher, producer, tokenID)
	require.NoError(t, err)

	approved, err := m.marketplace.ApproveRequest(producer, request.ID)
	require.NoError(t, err)
	assert.True(t, approved.Accepted)

	stored, err := m.marketplace.RequestOf(request.ID)
	require.NoError(t, err)
	assert.True(t, stored.Accepted)
}

func TestApproveIsIdempotent(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	publisher := newAccountID(t)
	tokenID := mintToken(t, m, producer)

	request, err := m.marketplace.PublishRequest(publisher, producer, tokenID)
	require.NoError(t, err)

	_, err = m.marketplace.ApproveRequest(producer, request.ID)
	require.NoError(t, err)
	again, err := m.marketplace.ApproveRequest(producer, request.ID)
	require.NoError(t, err)
	assert.True(t, again.Accepted)
}

// Approve reports not-found for a wrong caller; it does not reveal whether
// the request exists.
func TestApproveByNonProducerLooksLikeMissing(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	publisher := newAccountID(t)
	tokenID := mintToken(t, m, producer)

	request, err := m.marketplace.PublishRequest(publisher, producer, tokenID)
	require.NoError(t, err)

	_, err = m.marketplace.ApproveRequest(publisher, request.ID)
	assert.ErrorIs(t, err, ErrRequestNotFound)

	_, err = m.marketplace.ApproveRequest(producer, request.ID+1000)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestDisapproveReturnsRequestToPending(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	publisher := newAccountID(t)
	tokenID := mintToken(t, m, producer)

	request, err := m.marketplace.PublishRequest(publisher, producer, tokenID)
	require.NoError(t, err)
	_, err = m.marketplace.ApproveRequest(producer, request.ID)
	require.NoError(t, err)

	disapproved, err := m.marketplace.Disapprove(producer, request.ID)
	require.NoError(t, err)
	assert.False(t, disapproved.Accepted)

	// Indexes survive a disapproval.
	hasProducer, err := m.marketplace.ProducerHasRequest(producer, tokenID)
	require.NoError(t, err)
	assert.True(t, hasProducer)
	hasPublisher, err := m.marketplace.PublisherHasRequest(publisher, tokenID)
	require.NoError(t, err)
	assert.True(t, hasPublisher)
}

func TestDisapproveDistinguishesCallerFromMissing(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	publisher := newAccountID(t)
	tokenID := mintToken(t, m, producer)

	request, err := m.marketplace.PublishRequest(publisher, producer, tokenID)
	require.NoError(t, err)

	_, err = m.marketplace.Disapprove(publisher, request.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = m.marketplace.Disapprove(producer, request.ID+1000)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestCancelPendingRequest(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	publisher := newAccountID(t)
	tokenID := mintToken(t, m, producer)

	request, err := m.marketplace.PublishRequest(publisher, producer, tokenID)
	require.NoError(t, err)

	require.NoError(t, m.marketplace.CancelRequest(publisher, request.ID))

	_, err = m.marketplace.RequestOf(request.ID)
	assert.ErrorIs(t, err, ErrRequestNotFound)

	hasProducer, err := m.marketplace.ProducerHasRequest(producer, tokenID)
	require.NoError(t, err)
	assert.False(t, hasProducer)
	hasPublisher, err := m.marketplace.PublisherHasRequest(publisher, tokenID)
	require.NoError(t, err)
	assert.False(t, hasPublisher)

	// The slot is free again.
	_, err = m.marketplace.PublishRequest(publisher, producer, tokenID)
	require.NoError(t, err)
}

func TestCancelAcceptedRequestRejected(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	publisher := newAccountID(t)
	tokenID := mintToken(t, m, producer)

	request, err := m.marketplace.PublishRequest(publisher, producer, tokenID)
	require.NoError(t, err)
	_, err = m.marketplace.ApproveRequest(producer, request.ID)
	require.NoError(t, err)

	err = m.marketplace.CancelRequest(publisher, request.ID)
	assert.ErrorIs(t, err, ErrRequestIsAccepted)
}

func TestCancelDistinguishesCallerFromMissing(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	publisher := newAccountID(t)
	tokenID := mintToken(t, m, producer)

	request, err := m.marketplace.PublishRequest(publisher, producer, tokenID)
	require.NoError(t, err)

	err = m.marketplace.CancelRequest(producer, request.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = m.marketplace.CancelRequest(publisher, request.ID+1000)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestAcceptedPublisherResolution(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	publisher := newAccountID(t)
	tokenID := mintToken(t, m, producer)

	resolved, err := m.requests.AcceptedPublisher(m.db, tokenID)
	require.NoError(t, err)
	assert.Nil(t, resolved)

	request, err := m.marketplace.PublishRequest(publisher, producer, tokenID)
	require.NoError(t, err)

	// Pending requests do not resolve.
	resolved, err = m.requests.AcceptedPublisher(m.db, tokenID)
	require.NoError(t, err)
	assert.Nil(t, resolved)

	_, err = m.marketplace.ApproveRequest(producer, request.ID)
	require.NoError(t, err)

	resolved, err = m.requests.AcceptedPublisher(m.db, tokenID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, publisher, *resolved)
}

func TestRequestIDsAreMonotonic(t *testing.T) {
	m := setupMarketplace(t)
	producer := newAccountID(t)
	publisher := newAccountID(t)
	tokenID := mintToken(t, m, producer)

	first, err := m.marketplace.PublishRequest(publisher, producer, tokenID)
	require.NoError(t, err)
	require.NoError(t, m.marketplace.CancelRequest(publisher, first.ID))

	second, err := m.marketplace.PublishRequest(publisher, producer, tokenID)
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	var count int64
	require.NoError(t, m.db.Model(&models.PublishRequest{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
