package tokenledger

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// Authorization errors
	ErrUnauthorized = errors.New("tokenledger: caller is not authorized")

	// Reentrancy errors
	ErrReentrancy = errors.New("tokenledger: reentrant call detected")

	// Balance accounting errors
	ErrInsufficientBalance = errors.New("tokenledger: insufficient balance")
	ErrOverflow            = errors.New("tokenledger: balance overflow")

	// Snapshot errors
	ErrNoSnapshot      = errors.New("tokenledger: no snapshot available")
	ErrInvalidSnapshot = errors.New("tokenledger: invalid snapshot")

	// Store errors
	ErrStoreNotReady = errors.New("tokenledger: store not ready")
	ErrStoreClosed   = errors.New("tokenledger: store is closed")
)

// BalanceError describes a failed balance mutation. It wraps either
// ErrInsufficientBalance or ErrOverflow so callers can classify it with
// errors.Is while still seeing the offending pair and amounts.
type BalanceError struct {
	Holder string
	Kind   uint32
	Have   uint64
	Want   uint64
	Reason error // ErrInsufficientBalance or ErrOverflow
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("%v: holder=%q kind=%d have=%d want=%d",
		e.Reason, e.Holder, e.Kind, e.Have, e.Want)
}

// Unwrap returns the sentinel reason for errors.Is matching.
func (e *BalanceError) Unwrap() error { return e.Reason }

// IsAuthorizationError returns true if the error reports a missing owner or
// admin role.
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsArithmeticError returns true if the error reports a rejected balance
// mutation (underflow or overflow).
func IsArithmeticError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrOverflow)
}

// IsRetryable returns true if the error is temporary and the operation can
// be retried. Ledger state errors are never retryable: the ledger remains
// valid after them, but retrying an identical call yields an identical
// result.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrReentrancy) ||
		errors.Is(err, ErrStoreNotReady)
}
