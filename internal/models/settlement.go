// internal/models/settlement.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Settlement records one completed sale split. ProducerShare and
// PublisherShare always sum to Amount; the rounding remainder goes to the
// producer.
type Settlement struct {
	BaseModel
	BuyerID          uuid.UUID        `json:"buyer_id" gorm:"type:uuid;not null;index"`
	TokenID          int64            `json:"token_id" gorm:"not null;index"`
	ProducerID       uuid.UUID        `json:"producer_id" gorm:"type:uuid;not null;index"`
	PublisherID      *uuid.UUID       `json:"publisher_id" gorm:"type:uuid;index"`
	Amount           int64            `json:"amount" gorm:"not null"`
	CommissionRate   int64            `json:"commission_rate" gorm:"not null"`
	ProducerShare    int64            `json:"producer_share" gorm:"not null"`
	PublisherShare   int64            `json:"publisher_share" gorm:"not null"`
	PaymentReference string           `json:"payment_reference" gorm:"size:255"`
	Status           SettlementStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ProcessedAt      *time.Time       `json:"processed_at"`

	// Relationships
	Buyer    Account       `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Producer Account       `json:"producer,omitempty" gorm:"foreignKey:ProducerID"`
	Product  Product       `json:"product,omitempty" gorm:"foreignKey:TokenID;references:TokenID"`
	Entries  []LedgerEntry `json:"entries,omitempty" gorm:"foreignKey:SettlementID"`
}

// LedgerEntry credits one payee for one settlement. An account's earnings
// balance is the sum of its entries.
type LedgerEntry struct {
	BaseModel
	SettlementID uuid.UUID `json:"settlement_id" gorm:"type:uuid;not null;index"`
	AccountID    uuid.UUID `json:"account_id" gorm:"type:uuid;not null;index"`
	Amount       int64     `json:"amount" gorm:"not null"`
	Role         EntryRole `json:"role" gorm:"type:varchar(20);not null"`

	// Relationships
	Settlement Settlement `json:"settlement,omitempty" gorm:"foreignKey:SettlementID"`
	Account    Account    `json:"account,omitempty" gorm:"foreignKey:AccountID"`
}
