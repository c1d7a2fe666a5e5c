package types

import (
	"math"
	"strconv"
)

// Amount is a token balance quantity. All balance arithmetic is unsigned
// 64-bit integer-only: no floating point, no wrapping.
//
// Additions and subtractions go through the checked methods: an operation
// that would overflow or take a balance negative reports failure instead of
// producing a wrapped value, since wrapping would forge or destroy tokens.
type Amount uint64

// MaxAmount is the largest representable balance.
const MaxAmount Amount = math.MaxUint64

// AddChecked returns a+b and true, or 0 and false if the sum would exceed
// MaxAmount.
func (a Amount) AddChecked(b Amount) (Amount, bool) {
	if b > MaxAmount-a {
		return 0, false
	}
	return a + b, true
}

// SubChecked returns a-b and true, or 0 and false if b exceeds a.
func (a Amount) SubChecked(b Amount) (Amount, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool { return a == 0 }

// String returns the decimal representation of the amount.
func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// ParseAmount parses a decimal amount string. Store backends persist amounts
// as decimal text because uint64 values above math.MaxInt64 do not survive a
// round-trip through signed integer columns.
func ParseAmount(s string) (Amount, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return Amount(v), nil
}
