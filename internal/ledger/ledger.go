// internal/ledger/ledger.go
package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/droplinked/marketplace-backend/internal/models"
)

var ErrInsufficientBalance = errors.New("insufficient token balance")

// Adapter wraps the semi-fungible balance table with mint/transfer/balance
// semantics. Mutating calls take the transaction handle of the enclosing
// marketplace operation so balance changes commit with the rest of the call.
type Adapter struct {
	db *gorm.DB
}

func NewAdapter(db *gorm.DB) *Adapter {
	return &Adapter{db: db}
}

// Mint credits amount units of tokenID to owner. It never touches any other
// owner's balance.
func (a *Adapter) Mint(tx *gorm.DB, owner uuid.UUID, tokenID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("mint amount must be positive, got %d", amount)
	}
	return a.credit(tx, owner, tokenID, amount)
}

// Transfer moves amount units of tokenID between owners.
func (a *Adapter) Transfer(tx *gorm.DB, from, to uuid.UUID, tokenID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("transfer amount must be positive, got %d", amount)
	}

	var balance models.TokenBalance
	err := tx.Where("owner_id = ? AND token_id = ?", from, tokenID).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && balance.Amount < amount) {
		return fmt.Errorf("%w: owner %s token %d", ErrInsufficientBalance, from, tokenID)
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	if err := tx.Model(&models.TokenBalance{}).
		Where("owner_id = ? AND token_id = ?", from, tokenID).
		Update("amount", gorm.Expr("amount - ?", amount)).Error; err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}

	return a.credit(tx, to, tokenID, amount)
}

// BalanceOf reports the owner's quantity of tokenID, zero when no row exists.
func (a *Adapter) BalanceOf(owner uuid.UUID, tokenID int64) (int64, error) {
	var balance models.TokenBalance
	err := a.db.Where("owner_id = ? AND token_id = ?", owner, tokenID).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("database error: %w", err)
	}
	return balance.Amount, nil
}

func (a *Adapter) credit(tx *gorm.DB, owner uuid.UUID, tokenID int64, amount int64) error {
	var balance models.TokenBalance
	err := tx.Where("owner_id = ? AND token_id = ?", owner, tokenID).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		balance = models.TokenBalance{
			OwnerID: owner,
			TokenID: tokenID,
			Amount:  amount,
		}
		if err := tx.Create(&balance).Error; err != nil {
			return fmt.Errorf("failed to create balance row: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	if err := tx.Model(&models.TokenBalance{}).
		Where("owner_id = ? AND token_id = ?", owner, tokenID).
		Update("amount", gorm.Expr("amount + ?", amount)).Error; err != nil {
		return fmt.Errorf("failed to credit balance: %w", err)
	}
	return nil
}
