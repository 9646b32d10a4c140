// internal/handlers/common.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/droplinked/marketplace-backend/internal/i18n"
	"github.com/droplinked/marketplace-backend/internal/services"
	"github.com/droplinked/marketplace-backend/internal/utils"
)

// serviceErrorResponse maps marketplace error kinds to HTTP responses. The
// approve path reaches this with ErrRequestNotFound for both a missing
// request and a non-producer caller; that merge is part of the API contract.
func serviceErrorResponse(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrProductMismatch):
		utils.ErrorResponse(c, http.StatusConflict, "PRODUCT_MISMATCH",
			i18n.T(lang, i18n.KeyProductMismatch), nil)
	case errors.Is(err, services.ErrProductNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "PRODUCT_NOT_FOUND",
			i18n.T(lang, i18n.KeyProductNotFound), nil)
	case errors.Is(err, services.ErrAlreadyRequested):
		utils.ErrorResponse(c, http.StatusConflict, "ALREADY_REQUESTED",
			i18n.T(lang, i18n.KeyRequestAlreadyRequested), nil)
	case errors.Is(err, services.ErrRequestNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "REQUEST_NOT_FOUND",
			i18n.T(lang, i18n.KeyRequestNotFound), nil)
	case errors.Is(err, services.ErrAccessDenied):
		utils.ErrorResponse(c, http.StatusForbidden, "ACCESS_DENIED",
			i18n.T(lang, i18n.KeyRequestAccessDenied), nil)
	case errors.Is(err, services.ErrRequestIsAccepted):
		utils.ErrorResponse(c, http.StatusConflict, "REQUEST_IS_ACCEPTED",
			i18n.T(lang, i18n.KeyRequestIsAccepted), nil)
	case errors.Is(err, services.ErrSettlementFailed):
		utils.ErrorResponse(c, http.StatusPaymentRequired, "SETTLEMENT_FAILED",
			i18n.T(lang, i18n.KeyPaymentSettlementFailed), nil)
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}
