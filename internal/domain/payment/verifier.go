package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/clinkr/clinkr-api/internal/explorer"
)

// Reason explains a failed verification
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonMalformedID      Reason = "malformed_id"
	ReasonUnsupportedAsset Reason = "unsupported_asset"
	ReasonNotFound         Reason = "not_found"
	ReasonAmountTooLow     Reason = "amount_too_low"
)

// VerificationResult is produced fresh per call and never cached here
type VerificationResult struct {
	Valid          bool            `json:"valid"`
	ObservedAmount decimal.Decimal `json:"observed_amount"`
	Reason         Reason          `json:"reason,omitempty"`
}

// Verifier decides pay/no-pay for a claimed chain transaction. It owns
// no retry policy; an unreachable explorer surfaces as an error so the
// caller can distinguish "try again" from "bad payment".
type Verifier struct {
	registry *explorer.Registry
}

// NewVerifier creates a verifier over the adapter registry
func NewVerifier(registry *explorer.Registry) *Verifier {
	return &Verifier{registry: registry}
}

// Verify checks that txid settled at least expected units of asset.
// Over-payment passes; comparison is exact fixed-point, no tolerance.
// The returned error is non-nil only for retryable upstream failures.
func (v *Verifier) Verify(ctx context.Context, txid string, expected decimal.Decimal, asset explorer.Asset) (*VerificationResult, error) {
	if !ValidTxID(asset, txid) {
		return &VerificationResult{Valid: false, Reason: ReasonMalformedID}, nil
	}

	adapter, ok := v.registry.Lookup(asset)
	if !ok {
		return &VerificationResult{Valid: false, Reason: ReasonUnsupportedAsset}, nil
	}

	transfer, err := adapter.FetchTransaction(ctx, txid)
	if err != nil {
		if errors.Is(err, explorer.ErrTxNotFound) {
			return &VerificationResult{Valid: false, Reason: ReasonNotFound}, nil
		}
		// Unreachable or throttled explorer is not a bad payment
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	if transfer.Amount.LessThan(expected) {
		return &VerificationResult{
			Valid:          false,
			ObservedAmount: transfer.Amount,
			Reason:         ReasonAmountTooLow,
		}, nil
	}

	return &VerificationResult{Valid: true, ObservedAmount: transfer.Amount}, nil
}
