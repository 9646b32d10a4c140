// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthAccountExists      = "auth.account_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Products
	KeyProductMinted   = "product.minted"
	KeyProductNotFound = "product.not_found"
	KeyProductMismatch = "product.mismatch"

	// Publish requests
	KeyRequestCreated          = "request.created"
	KeyRequestApproved         = "request.approved"
	KeyRequestDisapproved      = "request.disapproved"
	KeyRequestCancelled        = "request.cancelled"
	KeyRequestNotFound         = "request.not_found"
	KeyRequestAlreadyRequested = "request.already_requested"
	KeyRequestAccessDenied     = "request.access_denied"
	KeyRequestIsAccepted       = "request.is_accepted"

	// Payments
	KeyPaymentSuccess          = "payment.success"
	KeyPaymentFailed           = "payment.failed"
	KeyPaymentSettled          = "payment.settled"
	KeyPaymentSettlementFailed = "payment.settlement_failed"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
)
