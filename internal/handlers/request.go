// internal/handlers/request.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/droplinked/marketplace-backend/internal/i18n"
	"github.com/droplinked/marketplace-backend/internal/services"
	"github.com/droplinked/marketplace-backend/internal/utils"
)

type RequestHandler struct {
	marketplace *services.MarketplaceService
}

type createRequestPayload struct {
	ProducerID uuid.UUID `json:"producer_id" binding:"required"`
	TokenID    int64     `json:"token_id" binding:"required"`
}

func NewRequestHandler(marketplace *services.MarketplaceService) *RequestHandler {
	return &RequestHandler{
		marketplace: marketplace,
	}
}

// POST /requests
// Files a resale request by the calling publisher against the producer's token.
func (h *RequestHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	caller, ok := callerID(c)
	if !ok {
		return
	}

	var payload createRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	request, err := h.marketplace.PublishRequest(caller, payload.ProducerID, payload.TokenID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, request)
}

// GET /requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	request, err := h.marketplace.RequestOf(requestID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, request)
}

// POST /requests/:id/approve
// Producer-only; approving an already accepted request is a no-op.
func (h *RequestHandler) Approve(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	request, err := h.marketplace.ApproveRequest(caller, requestID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, request)
}

// POST /requests/:id/disapprove
func (h *RequestHandler) Disapprove(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	request, err := h.marketplace.Disapprove(caller, requestID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, request)
}

// DELETE /requests/:id
// Publisher-only withdrawal; accepted requests cannot be cancelled.
func (h *RequestHandler) Cancel(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	caller, ok := callerID(c)
	if !ok {
		return
	}

	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	if err := h.marketplace.CancelRequest(caller, requestID); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRequestCancelled),
	})
}

// GET /requests/index/producer/:accountId/:tokenId
func (h *RequestHandler) ProducerHasRequest(c *gin.Context) {
	accountID, tokenID, ok := indexParams(c)
	if !ok {
		return
	}

	exists, err := h.marketplace.ProducerHasRequest(accountID, tokenID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"account_id":  accountID,
		"token_id":    tokenID,
		"has_request": exists,
	})
}

// GET /requests/index/publisher/:accountId/:tokenId
func (h *RequestHandler) PublisherHasRequest(c *gin.Context) {
	accountID, tokenID, ok := indexParams(c)
	if !ok {
		return
	}

	exists, err := h.marketplace.PublisherHasRequest(accountID, tokenID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"account_id":  accountID,
		"token_id":    tokenID,
		"has_request": exists,
	})
}

func requestIDParam(c *gin.Context) (uint64, bool) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID", nil)
		return 0, false
	}
	return requestID, true
}

func indexParams(c *gin.Context) (uuid.UUID, int64, bool) {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid account ID", nil)
		return uuid.Nil, 0, false
	}

	tokenID, err := strconv.ParseInt(c.Param("tokenId"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid token ID", nil)
		return uuid.Nil, 0, false
	}

	return accountID, tokenID, true
}
