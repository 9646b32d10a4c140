// internal/handlers/product.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/droplinked/marketplace-backend/internal/i18n"
	"github.com/droplinked/marketplace-backend/internal/services"
	"github.com/droplinked/marketplace-backend/internal/utils"
)

type ProductHandler struct {
	marketplace     *services.MarketplaceService
	registryService *services.RegistryService
	storageService  *services.StorageService
}

func NewProductHandler(marketplace *services.MarketplaceService, registryService *services.RegistryService, storageService *services.StorageService) *ProductHandler {
	return &ProductHandler{
		marketplace:     marketplace,
		registryService: registryService,
		storageService:  storageService,
	}
}

// POST /products/mint
// Registers the product on first mint and adds quantity to the caller's
// balance on every mint of the same tuple.
func (h *ProductHandler) Mint(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	caller, ok := callerID(c)
	if !ok {
		return
	}

	var req services.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.marketplace.Mint(caller, &req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	balance, err := h.marketplace.BalanceOf(caller, product.TokenID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"product": product,
		"balance": balance,
	})
}

// GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	products, total, err := h.registryService.ListProducts(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params))
}

// GET /products/:tokenId
func (h *ProductHandler) GetProduct(c *gin.Context) {
	tokenID, err := strconv.ParseInt(c.Param("tokenId"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid token ID", nil)
		return
	}

	product, err := h.marketplace.MetadataOf(tokenID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// GET /products/:tokenId/balance
// Returns the caller's balance, or another account's when ?account_id= is set.
func (h *ProductHandler) GetBalance(c *gin.Context) {
	tokenID, err := strconv.ParseInt(c.Param("tokenId"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid token ID", nil)
		return
	}

	owner, ok := callerID(c)
	if !ok {
		return
	}
	if accountIDStr := c.Query("account_id"); accountIDStr != "" {
		owner, err = uuid.Parse(accountIDStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid account ID", nil)
			return
		}
	}

	balance, err := h.marketplace.BalanceOf(owner, tokenID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"account_id": owner,
		"token_id":   tokenID,
		"balance":    balance,
	})
}

// POST /products/upload
// Stores content and returns the URI to mint with.
func (h *ProductHandler) UploadContent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadContent(file, header, h.storageService.DefaultUploadOptions())
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	utils.CreatedResponse(c, result)
}

// callerID resolves the authenticated account from the request context.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	accountIDStr, exists := utils.GetAccountIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	accountID, err := uuid.Parse(accountIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid account ID", nil)
		return uuid.Nil, false
	}

	return accountID, true
}
