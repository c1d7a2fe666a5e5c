package tokenledger

import "github.com/xraph/tokenledger/types"

// Re-export common types for convenience so users don't have to import types package.

// Identity is re-exported from types package.
type Identity = types.Identity

// TokenKind is re-exported from types package.
type TokenKind = types.TokenKind

// Amount is re-exported from types package.
type Amount = types.Amount

// MaxAmount is the largest representable balance.
const MaxAmount = types.MaxAmount

// Re-export parsers
var (
	ParseAmount    = types.ParseAmount
	ParseTokenKind = types.ParseTokenKind
)
