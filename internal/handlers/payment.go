// internal/handlers/payment.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/droplinked/marketplace-backend/internal/i18n"
	"github.com/droplinked/marketplace-backend/internal/services"
	"github.com/droplinked/marketplace-backend/internal/utils"
)

type PaymentHandler struct {
	marketplace    *services.MarketplaceService
	paymentService *services.PaymentService
}

type confirmPaymentPayload struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
	TokenID         int64  `json:"token_id" binding:"required"`
}

type settlePayload struct {
	BuyerID          *uuid.UUID `json:"buyer_id,omitempty"`
	TokenID          int64      `json:"token_id" binding:"required"`
	PaidAmount       int64      `json:"paid_amount" binding:"required,min=1"`
	PaymentReference string     `json:"payment_reference,omitempty"`
}

func NewPaymentHandler(marketplace *services.MarketplaceService, paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		marketplace:    marketplace,
		paymentService: paymentService,
	}
}

// POST /payments/intent
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	caller, ok := callerID(c)
	if !ok {
		return
	}

	var req services.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	intent, err := h.paymentService.CreatePaymentIntent(caller, &req)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPaymentFailed), err.Error())
		return
	}

	utils.CreatedResponse(c, intent)
}

// POST /payments/confirm
// Verifies the Stripe intent succeeded, then settles the paid amount against
// the token. The caller is the buyer.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	caller, ok := callerID(c)
	if !ok {
		return
	}

	var payload confirmPaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	amount, reference, err := h.paymentService.ConfirmPaymentIntent(payload.PaymentIntentID)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPaymentFailed), err.Error())
		return
	}

	settlement, err := h.marketplace.Settle(&services.SettleRequest{
		BuyerID:          caller,
		TokenID:          payload.TokenID,
		PaidAmount:       amount,
		PaymentReference: reference,
	})
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, settlement)
}

// POST /payments/settle
// Direct settlement for out-of-band payments. Any authenticated caller may
// settle; buyer_id defaults to the caller.
func (h *PaymentHandler) Settle(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	caller, ok := callerID(c)
	if !ok {
		return
	}

	var payload settlePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	buyer := caller
	if payload.BuyerID != nil {
		buyer = *payload.BuyerID
	}

	settlement, err := h.marketplace.Settle(&services.SettleRequest{
		BuyerID:          buyer,
		TokenID:          payload.TokenID,
		PaidAmount:       payload.PaidAmount,
		PaymentReference: payload.PaymentReference,
	})
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, settlement)
}

// GET /payments/settlements
func (h *PaymentHandler) GetSettlementHistory(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	settlements, total, err := h.paymentService.GetSettlementHistory(caller, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(settlements, total, params))
}

// GET /payments/balance
func (h *PaymentHandler) GetEarningsBalance(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	balance, err := h.paymentService.GetEarningsBalance(caller)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"account_id": caller,
		"balance":    balance,
	})
}
