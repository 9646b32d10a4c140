// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a distinct product definition shared by every unit minted for
// it. The token id is derived from the (content_uri, unit_price,
// commission_rate) tuple, and the tuple is immutable once the row exists;
// repeat mints only grow the supply.
type Product struct {
	TokenID         int64     `json:"token_id" gorm:"primaryKey;autoIncrement:false"`
	ContentURI      string    `json:"content_uri" gorm:"size:512;not null"`
	UnitPrice       int64     `json:"unit_price" gorm:"not null"`
	CommissionRate  int64     `json:"commission_rate" gorm:"not null"`
	OwnerProducerID uuid.UUID `json:"owner_producer_id" gorm:"type:uuid;not null;index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relationships
	OwnerProducer Account          `json:"owner_producer,omitempty" gorm:"foreignKey:OwnerProducerID"`
	Requests      []PublishRequest `json:"requests,omitempty" gorm:"foreignKey:TokenID;references:TokenID"`
}
