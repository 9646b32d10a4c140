// internal/models/balance.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenBalance is the semi-fungible balance ledger keyed by owner and token
// id. Mint only ever increases a row; transfers move quantity between rows.
type TokenBalance struct {
	OwnerID   uuid.UUID `json:"owner_id" gorm:"type:uuid;primaryKey"`
	TokenID   int64     `json:"token_id" gorm:"primaryKey;autoIncrement:false"`
	Amount    int64     `json:"amount" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
