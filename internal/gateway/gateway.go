// Package gateway talks to the acquiring bank's card-not-present endpoint.
package gateway

import (
	"context"
	"errors"

	"github.com/dwgops/pospay/internal/domain"
)

// ErrBadRequest is returned when the gateway rejects the submission itself,
// typically a malformed card number. Distinct from a decline: the charge was
// never attempted.
var ErrBadRequest = errors.New("gateway rejected request")

// ChargeRequest is the wire-level submission. Amount is in minor units; the
// dollars-to-cents conversion happens exactly once, before this struct is
// built.
type ChargeRequest struct {
	CardNumber   string
	ExpiryMonth  string
	ExpiryYear   string
	CVC          string
	CustomerName string
	AmountCents  int64
	Description  string
	Currency     string
}

// Authorizer submits one charge and reports the bank's verdict.
type Authorizer interface {
	Authorize(ctx context.Context, req ChargeRequest) (domain.AuthorizationResult, error)
}
