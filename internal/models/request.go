// internal/models/request.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// PublishRequest is a publisher's claim to resell a producer's token.
// Accepted toggles between approve and disapprove; cancellation deletes the
// row outright, and because the id sequence is monotonic a cancelled request
// can never come back.
type PublishRequest struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	ProducerID  uuid.UUID `json:"producer_id" gorm:"type:uuid;not null;index"`
	PublisherID uuid.UUID `json:"publisher_id" gorm:"type:uuid;not null;index"`
	TokenID     int64     `json:"token_id" gorm:"not null;index"`
	Accepted    bool      `json:"accepted" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Producer  Account `json:"producer,omitempty" gorm:"foreignKey:ProducerID"`
	Publisher Account `json:"publisher,omitempty" gorm:"foreignKey:PublisherID"`
	Product   Product `json:"product,omitempty" gorm:"foreignKey:TokenID;references:TokenID"`
}

// ProducerRequestIndex mirrors producerRequests[producer][tokenId]: a row is
// present exactly while a live request references the pair. Maintained in the
// same transaction as the PublishRequest row.
type ProducerRequestIndex struct {
	AccountID uuid.UUID `json:"account_id" gorm:"type:uuid;primaryKey"`
	TokenID   int64     `json:"token_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at"`
}

// PublisherRequestIndex mirrors publishersRequests[publisher][tokenId].
type PublisherRequestIndex struct {
	AccountID uuid.UUID `json:"account_id" gorm:"type:uuid;primaryKey"`
	TokenID   int64     `json:"token_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at"`
}
