// internal/services/errors.go
package services

import "errors"

// Error kinds surfaced by marketplace operations. Handlers match them with
// errors.Is to pick HTTP status codes; services wrap them with context via
// fmt.Errorf("...: %w", ...).
var (
	// ErrProductMismatch means the mint parameters collide with an existing
	// token id whose stored tuple differs.
	ErrProductMismatch = errors.New("product data conflicts with existing token id")

	// ErrProductNotFound means no product exists for the token id.
	ErrProductNotFound = errors.New("product not found")

	// ErrAlreadyRequested means the publisher already holds a live request
	// for the token.
	ErrAlreadyRequested = errors.New("publish request already exists for this token")

	// ErrRequestNotFound covers both a missing request and, for approval, a
	// caller who is not the request's producer. Approval deliberately merges
	// the two so it does not leak which requests exist.
	ErrRequestNotFound = errors.New("publish request not found")

	// ErrAccessDenied means the caller is not the authorized party for the
	// request it targets.
	ErrAccessDenied = errors.New("caller is not authorized for this request")

	// ErrRequestIsAccepted means cancellation was attempted on an accepted
	// request.
	ErrRequestIsAccepted = errors.New("accepted requests cannot be cancelled")

	// ErrSettlementFailed means the payment split could not complete
	// atomically; no funds moved.
	ErrSettlementFailed = errors.New("settlement could not be completed")
)
