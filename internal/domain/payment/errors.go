package payment

import "errors"

var (
	ErrUnknownPlan            = errors.New("unknown plan")
	ErrMalformedTxID          = errors.New("malformed transaction id")
	ErrDuplicateTransaction   = errors.New("transaction already used")
	ErrInvalidTransaction     = errors.New("transaction verification failed")
	ErrUpstreamUnavailable    = errors.New("chain explorer unavailable")
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrInvalidDecision        = errors.New("invalid review decision")
	ErrInvalidStateTransition = errors.New("payment already reviewed")
)
