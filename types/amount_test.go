package types

import "testing"

func TestAmountAddChecked(t *testing.T) {
	tests := []struct {
		name string
		a, b Amount
		want Amount
		ok   bool
	}{
		{"Simple", 100, 50, 150, true},
		{"Zero", 0, 0, 0, true},
		{"ToMax", MaxAmount - 1, 1, MaxAmount, true},
		{"OverflowByOne", MaxAmount, 1, 0, false},
		{"OverflowLarge", MaxAmount - 10, 100, 0, false},
		{"BothMax", MaxAmount, MaxAmount, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.AddChecked(tt.b)
			if ok != tt.ok {
				t.Fatalf("AddChecked ok: got %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("AddChecked: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAmountSubChecked(t *testing.T) {
	tests := []struct {
		name string
		a, b Amount
		want Amount
		ok   bool
	}{
		{"Simple", 150, 50, 100, true},
		{"ToZero", 100, 100, 0, true},
		{"UnderflowByOne", 100, 101, 0, false},
		{"FromZero", 0, 1, 0, false},
		{"MaxMinusMax", MaxAmount, MaxAmount, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.SubChecked(tt.b)
			if ok != tt.ok {
				t.Fatalf("SubChecked ok: got %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("SubChecked: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAmountStringRoundTrip(t *testing.T) {
	for _, a := range []Amount{0, 1, 12345, MaxAmount} {
		parsed, err := ParseAmount(a.String())
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", a.String(), err)
		}
		if parsed != a {
			t.Errorf("round trip: got %d, want %d", parsed, a)
		}
	}
}

func TestParseAmountRejectsInvalid(t *testing.T) {
	for _, s := range []string{"", "-1", "abc", "18446744073709551616"} {
		if _, err := ParseAmount(s); err == nil {
			t.Errorf("ParseAmount(%q): expected error", s)
		}
	}
}

func TestTokenKindString(t *testing.T) {
	if TokenKind(42).String() != "42" {
		t.Errorf("TokenKind(42).String() = %q", TokenKind(42).String())
	}
	k, err := ParseTokenKind("4294967295")
	if err != nil {
		t.Fatal(err)
	}
	if k != TokenKind(4294967295) {
		t.Errorf("ParseTokenKind: got %d", k)
	}
	if _, err := ParseTokenKind("4294967296"); err == nil {
		t.Error("ParseTokenKind: expected range error")
	}
}
