// Package types provides common value types used across TokenLedger.
package types

import "strconv"

// Identity is an opaque key for a caller or account. The ledger performs no
// format validation: any string, including the empty string, is a distinct
// valid identity, and the host is responsible for authenticating whatever it
// passes in. Equality is exact string equality.
type Identity string

// String returns the identity as a plain string.
func (i Identity) String() string { return string(i) }

// TokenKind identifies a token class within the ledger. Balances are tracked
// per (Identity, TokenKind) pair. There is no registry of valid kinds; any
// value is legal, including kinds that were never minted.
type TokenKind uint32

// String returns the decimal representation of the token kind.
func (k TokenKind) String() string {
	return strconv.FormatUint(uint64(k), 10)
}

// ParseTokenKind parses a decimal token kind string.
func ParseTokenKind(s string) (TokenKind, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return TokenKind(v), nil
}
