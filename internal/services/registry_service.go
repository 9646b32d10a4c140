// internal/services/registry_service.go
package services

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/droplinked/marketplace-backend/internal/ledger"
	"github.com/droplinked/marketplace-backend/internal/models"
	"github.com/droplinked/marketplace-backend/internal/utils"
)

type RegistryService struct {
	db     *gorm.DB
	ledger *ledger.Adapter
}

type MintRequest struct {
	ContentURI     string `json:"content_uri" validate:"required,max=512"`
	UnitPrice      int64  `json:"unit_price" validate:"required,min=1"`
	CommissionRate int64  `json:"commission_rate" validate:"min=0,max=10000"`
	Quantity       int64  `json:"quantity" validate:"required,min=1"`
}

func NewRegistryService(db *gorm.DB, ledger *ledger.Adapter) *RegistryService {
	return &RegistryService{
		db:     db,
		ledger: ledger,
	}
}

// TokenID derives the product's token id from its defining tuple. The same
// tuple always yields the same id, so repeat mints grow the existing supply
// instead of creating a new product.
func TokenID(contentURI string, unitPrice, commissionRate int64) int64 {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d", contentURI, unitPrice, commissionRate)
	sum := h.Sum(nil)
	// Clear the sign bit so the id stays positive in 64-bit integer columns.
	return int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
}

// Mint creates the product if it does not exist yet and credits quantity
// units to the caller. Product creation and balance credit happen in the
// supplied transaction.
func (s *RegistryService) Mint(tx *gorm.DB, caller uuid.UUID, req *MintRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	tokenID := TokenID(req.ContentURI, req.UnitPrice, req.CommissionRate)

	var product models.Product
	err := tx.Where("token_id = ?", tokenID).First(&product).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First mint records the caller as owner producer.
		product = models.Product{
			TokenID:         tokenID,
			ContentURI:      req.ContentURI,
			UnitPrice:       req.UnitPrice,
			CommissionRate:  req.CommissionRate,
			OwnerProducerID: caller,
		}
		if err := tx.Create(&product).Error; err != nil {
			return nil, fmt.Errorf("failed to create product: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("database error: %w", err)
	default:
		// The tuple is immutable; any divergence is a mismatch, including a
		// hash collision on a different tuple.
		if product.ContentURI != req.ContentURI ||
			product.UnitPrice != req.UnitPrice ||
			product.CommissionRate != req.CommissionRate {
			return nil, fmt.Errorf("%w: token id %d", ErrProductMismatch, tokenID)
		}
	}

	if err := s.ledger.Mint(tx, caller, tokenID, req.Quantity); err != nil {
		return nil, fmt.Errorf("failed to mint tokens: %w", err)
	}

	return &product, nil
}

// MetadataOf returns the immutable product record for the token id.
func (s *RegistryService) MetadataOf(tokenID int64) (*models.Product, error) {
	var product models.Product
	err := s.db.Where("token_id = ?", tokenID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: token id %d", ErrProductNotFound, tokenID)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

// ListProducts returns products for browsing, newest first.
func (s *RegistryService) ListProducts(params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "unit_price", "commission_rate"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}
