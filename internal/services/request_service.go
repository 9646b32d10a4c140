// internal/services/request_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/droplinked/marketplace-backend/internal/models"
)

// RequestService implements the publish-request state machine:
//
//	NonExistent -> Pending (publish) -> Accepted (approve)
//	Accepted -> Pending (disapprove)
//	Pending -> deleted (cancel)
//
// Accepted requests never cancel. The two existence indexes are written in
// the same transaction as the request row so they always agree with it.
type RequestService struct {
	db *gorm.DB
}

func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{db: db}
}

// Publish creates a pending request from the calling publisher for the
// producer's token. A publisher holds at most one live request per token.
func (s *RequestService) Publish(tx *gorm.DB, publisher, producer uuid.UUID, tokenID int64) (*models.PublishRequest, error) {
	var count int64
	if err := tx.Model(&models.PublisherRequestIndex{}).
		Where("account_id = ? AND token_id = ?", publisher, tokenID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check request index: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: token id %d", ErrAlreadyRequested, tokenID)
	}

	request := &models.PublishRequest{
		ProducerID:  producer,
		PublisherID: publisher,
		TokenID:     tokenID,
		Accepted:    false,
	}
	if err := tx.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create publish request: %w", err)
	}

	// Index rows are idempotent boolean sets: another publisher may already
	// have marked the producer side for this token.
	producerIdx := models.ProducerRequestIndex{AccountID: producer, TokenID: tokenID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&producerIdx).Error; err != nil {
		return nil, fmt.Errorf("failed to write producer index: %w", err)
	}
	publisherIdx := models.PublisherRequestIndex{AccountID: publisher, TokenID: tokenID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&publisherIdx).Error; err != nil {
		return nil, fmt.Errorf("failed to write publisher index: %w", err)
	}

	return request, nil
}

// Approve marks the request accepted. A missing request and a caller who is
// not the producer both surface as ErrRequestNotFound; approval does not
// reveal whether the request exists. Re-approving an accepted request is a
// no-op.
func (s *RequestService) Approve(tx *gorm.DB, caller uuid.UUID, requestID uint64) (*models.PublishRequest, error) {
	request, err := s.load(tx, requestID)
	if err != nil {
		return nil, err
	}
	if request.ProducerID != caller {
		return nil, fmt.Errorf("%w: request id %d", ErrRequestNotFound, requestID)
	}

	if request.Accepted {
		return request, nil
	}

	if err := tx.Model(request).Update("accepted", true).Error; err != nil {
		return nil, fmt.Errorf("failed to approve request: %w", err)
	}
	request.Accepted = true
	return request, nil
}

// Disapprove returns an accepted request to the unaccepted state. The request
// stays live and both index entries remain set, so it can be re-approved or
// cancelled later.
func (s *RequestService) Disapprove(tx *gorm.DB, caller uuid.UUID, requestID uint64) (*models.PublishRequest, error) {
	request, err := s.load(tx, requestID)
	if err != nil {
		return nil, err
	}
	if request.ProducerID != caller {
		return nil, fmt.Errorf("%w: request id %d", ErrAccessDenied, requestID)
	}

	if err := tx.Model(request).Update("accepted", false).Error; err != nil {
		return nil, fmt.Errorf("failed to disapprove request: %w", err)
	}
	request.Accepted = false
	return request, nil
}

// Cancel removes a pending request and clears both index entries. Only the
// originating publisher may cancel, and only while the request is not
// accepted. Ids are never reused, so a cancelled request cannot resurrect.
func (s *RequestService) Cancel(tx *gorm.DB, caller uuid.UUID, requestID uint64) error {
	request, err := s.load(tx, requestID)
	if err != nil {
		return err
	}
	if request.PublisherID != caller {
		return fmt.Errorf("%w: request id %d", ErrAccessDenied, requestID)
	}
	if request.Accepted {
		return fmt.Errorf("%w: request id %d", ErrRequestIsAccepted, requestID)
	}

	if err := tx.Delete(request).Error; err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	if err := tx.Where("account_id = ? AND token_id = ?", request.ProducerID, request.TokenID).
		Delete(&models.ProducerRequestIndex{}).Error; err != nil {
		return fmt.Errorf("failed to clear producer index: %w", err)
	}
	if err := tx.Where("account_id = ? AND token_id = ?", request.PublisherID, request.TokenID).
		Delete(&models.PublisherRequestIndex{}).Error; err != nil {
		return fmt.Errorf("failed to clear publisher index: %w", err)
	}

	return nil
}

// Get returns the request by id.
func (s *RequestService) Get(requestID uint64) (*models.PublishRequest, error) {
	return s.load(s.db, requestID)
}

// ProducerHasRequest reports producerRequests[producer][tokenId].
func (s *RequestService) ProducerHasRequest(producer uuid.UUID, tokenID int64) (bool, error) {
	var count int64
	err := s.db.Model(&models.ProducerRequestIndex{}).
		Where("account_id = ? AND token_id = ?", producer, tokenID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check producer index: %w", err)
	}
	return count > 0, nil
}

// PublisherHasRequest reports publishersRequests[publisher][tokenId].
func (s *RequestService) PublisherHasRequest(publisher uuid.UUID, tokenID int64) (bool, error) {
	var count int64
	err := s.db.Model(&models.PublisherRequestIndex{}).
		Where("account_id = ? AND token_id = ?", publisher, tokenID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check publisher index: %w", err)
	}
	return count > 0, nil
}

// AcceptedPublisher resolves the publisher named by the most recently
// updated accepted request for the token, or nil when none is accepted.
func (s *RequestService) AcceptedPublisher(tx *gorm.DB, tokenID int64) (*uuid.UUID, error) {
	var request models.PublishRequest
	err := tx.Where("token_id = ? AND accepted = ?", tokenID, true).
		Order("updated_at DESC").
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &request.PublisherID, nil
}

// load resolves the full record before any caller check so each operation can
// apply its own authorization policy.
func (s *RequestService) load(tx *gorm.DB, requestID uint64) (*models.PublishRequest, error) {
	var request models.PublishRequest
	err := tx.First(&request, requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: request id %d", ErrRequestNotFound, requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &request, nil
}
