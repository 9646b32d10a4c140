// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/droplinked/marketplace-backend/internal/config"
	"github.com/droplinked/marketplace-backend/internal/models"
	"github.com/droplinked/marketplace-backend/internal/utils"
)

// RateDenominator is the commission scale: rates are basis points.
const RateDenominator int64 = 10000

type PaymentService struct {
	db       *gorm.DB
	config   *config.Config
	requests *RequestService
}

type CreatePaymentIntentRequest struct {
	TokenID  int64                  `json:"token_id" validate:"required"`
	Amount   int64                  `json:"amount" validate:"required,min=1"`
	Currency string                 `json:"currency,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

type SettleRequest struct {
	BuyerID          uuid.UUID `json:"buyer_id" validate:"required"`
	TokenID          int64     `json:"token_id" validate:"required"`
	PaidAmount       int64     `json:"paid_amount" validate:"required,min=1"`
	PaymentReference string    `json:"payment_reference,omitempty"`
}

func NewPaymentService(db *gorm.DB, config *config.Config, requests *RequestService) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:       db,
		config:   config,
		requests: requests,
	}
}

// SplitShares computes the commission split. Integer division floors the
// publisher share; the remainder always lands with the producer, so the two
// shares sum to paidAmount exactly.
func SplitShares(paidAmount, commissionRate int64) (producerShare, publisherShare int64) {
	publisherShare = paidAmount * commissionRate / RateDenominator
	producerShare = paidAmount - publisherShare
	return producerShare, publisherShare
}

// Settle splits paidAmount between the product's producer and the currently
// accepted publisher and disburses both shares in one transaction. Shares are
// computed before any write, and a failure anywhere rolls back everything, so
// the buyer's funds are never partially applied.
func (s *PaymentService) Settle(tx *gorm.DB, req *SettleRequest) (*models.Settlement, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSettlementFailed, err)
	}

	var product models.Product
	err := tx.Where("token_id = ?", req.TokenID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrSettlementFailed, fmt.Errorf("%w: token id %d", ErrProductNotFound, req.TokenID))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: database error: %v", ErrSettlementFailed, err)
	}

	publisherID, err := s.requests.AcceptedPublisher(tx, req.TokenID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSettlementFailed, err)
	}

	// Without an accepted publisher the producer takes the full amount.
	rate := product.CommissionRate
	if publisherID == nil {
		rate = 0
	}
	producerShare, publisherShare := SplitShares(req.PaidAmount, rate)

	now := time.Now()
	settlement := &models.Settlement{
		BuyerID:          req.BuyerID,
		TokenID:          req.TokenID,
		ProducerID:       product.OwnerProducerID,
		PublisherID:      publisherID,
		Amount:           req.PaidAmount,
		CommissionRate:   rate,
		ProducerShare:    producerShare,
		PublisherShare:   publisherShare,
		PaymentReference: req.PaymentReference,
		Status:           models.SettlementStatusCompleted,
		ProcessedAt:      &now,
	}
	if err := tx.Create(settlement).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to record settlement: %v", ErrSettlementFailed, err)
	}

	entries := []models.LedgerEntry{
		{
			SettlementID: settlement.ID,
			AccountID:    product.OwnerProducerID,
			Amount:       producerShare,
			Role:         models.EntryRoleProducer,
		},
	}
	if publisherID != nil {
		entries = append(entries, models.LedgerEntry{
			SettlementID: settlement.ID,
			AccountID:    *publisherID,
			Amount:       publisherShare,
			Role:         models.EntryRolePublisher,
		})
	}
	for i := range entries {
		if err := tx.Create(&entries[i]).Error; err != nil {
			return nil, fmt.Errorf("%w: failed to disburse shares: %v", ErrSettlementFailed, err)
		}
	}
	settlement.Entries = entries

	return settlement, nil
}

// CreatePaymentIntent opens a Stripe payment for a token purchase; the intent
// id comes back as the payment reference passed to settle on confirmation.
func (s *PaymentService) CreatePaymentIntent(buyerID uuid.UUID, req *CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("buyer_id", buyerID.String())
	params.AddMetadata("token_id", fmt.Sprintf("%d", req.TokenID))
	for k, v := range req.Metadata {
		if str, ok := v.(string); ok {
			params.AddMetadata(k, str)
		}
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// ConfirmPaymentIntent verifies the Stripe intent succeeded and returns the
// amount and reference to settle with.
func (s *PaymentService) ConfirmPaymentIntent(paymentIntentID string) (int64, string, error) {
	pi, err := paymentintent.Get(paymentIntentID, nil)
	if err != nil {
		return 0, "", fmt.Errorf("failed to get payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return 0, "", fmt.Errorf("payment intent %s is %s, not succeeded", paymentIntentID, pi.Status)
	}

	return pi.Amount, pi.ID, nil
}

// GetSettlementHistory lists settlements the account took part in.
func (s *PaymentService) GetSettlementHistory(accountID uuid.UUID, params utils.PaginationParams) ([]models.Settlement, int64, error) {
	query := s.db.Model(&models.Settlement{}).
		Where("buyer_id = ? OR producer_id = ? OR publisher_id = ?", accountID, accountID, accountID).
		Preload("Entries")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	allowedSortFields := []string{"created_at", "amount", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var settlements []models.Settlement
	if err := query.Find(&settlements).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch settlements: %w", err)
	}

	return settlements, total, nil
}

// GetEarningsBalance sums the account's ledger entries.
func (s *PaymentService) GetEarningsBalance(accountID uuid.UUID) (int64, error) {
	var balance int64
	err := s.db.Model(&models.LedgerEntry{}).
		Where("account_id = ?", accountID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&balance).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute earnings balance: %w", err)
	}
	return balance, nil
}
