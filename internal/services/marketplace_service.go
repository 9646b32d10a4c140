// internal/services/marketplace_service.go
package services

import (
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/droplinked/marketplace-backend/internal/database"
	"github.com/droplinked/marketplace-backend/internal/ledger"
	"github.com/droplinked/marketplace-backend/internal/models"
)

// MarketplaceService is the aggregate root over the registry, the request
// ledger, the token ledger and the payment splitter. Mutating operations are
// serialized behind a single writer lock and each runs in one database
// transaction, so every call applies in full or not at all and no interleaved
// partial state is ever observable. Reads go straight to committed state.
type MarketplaceService struct {
	mu       sync.Mutex
	db       *gorm.DB
	registry *RegistryService
	requests *RequestService
	payments *PaymentService
	tokens   *ledger.Adapter
}

func NewMarketplaceService(db *gorm.DB, registry *RegistryService, requests *RequestService, payments *PaymentService, tokens *ledger.Adapter) *MarketplaceService {
	return &MarketplaceService{
		db:       db,
		registry: registry,
		requests: requests,
		payments: payments,
		tokens:   tokens,
	}
}

// Mint registers the product (first mint) or verifies its tuple, then
// credits quantity units to the caller.
func (s *MarketplaceService) Mint(caller uuid.UUID, req *MintRequest) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var product *models.Product
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var err error
		product, err = s.registry.Mint(tx, caller, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// PublishRequest files a resale request by the calling publisher against the
// producer's token.
func (s *MarketplaceService) PublishRequest(caller, producer uuid.UUID, tokenID int64) (*models.PublishRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var request *models.PublishRequest
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var err error
		request, err = s.requests.Publish(tx, caller, producer, tokenID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// ApproveRequest accepts a request; only the producer may approve.
func (s *MarketplaceService) ApproveRequest(caller uuid.UUID, requestID uint64) (*models.PublishRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var request *models.PublishRequest
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var err error
		request, err = s.requests.Approve(tx, caller, requestID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// Disapprove returns a request to the unaccepted state.
func (s *MarketplaceService) Disapprove(caller uuid.UUID, requestID uint64) (*models.PublishRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var request *models.PublishRequest
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var err error
		request, err = s.requests.Disapprove(tx, caller, requestID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// CancelRequest withdraws a pending request.
func (s *MarketplaceService) CancelRequest(caller uuid.UUID, requestID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		return s.requests.Cancel(tx, caller, requestID)
	})
}

// Settle splits and disburses a sale's proceeds.
func (s *MarketplaceService) Settle(req *SettleRequest) (*models.Settlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var settlement *models.Settlement
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var err error
		settlement, err = s.payments.Settle(tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return settlement, nil
}

// Read queries, served from committed state without the writer lock.

func (s *MarketplaceService) MetadataOf(tokenID int64) (*models.Product, error) {
	return s.registry.MetadataOf(tokenID)
}

func (s *MarketplaceService) RequestOf(requestID uint64) (*models.PublishRequest, error) {
	return s.requests.Get(requestID)
}

func (s *MarketplaceService) ProducerHasRequest(producer uuid.UUID, tokenID int64) (bool, error) {
	return s.requests.ProducerHasRequest(producer, tokenID)
}

func (s *MarketplaceService) PublisherHasRequest(publisher uuid.UUID, tokenID int64) (bool, error) {
	return s.requests.PublisherHasRequest(publisher, tokenID)
}

func (s *MarketplaceService) BalanceOf(owner uuid.UUID, tokenID int64) (int64, error) {
	return s.tokens.BalanceOf(owner, tokenID)
}
