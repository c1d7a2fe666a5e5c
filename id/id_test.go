package id

import (
	"strings"
	"testing"
)

func TestNewGeneratesValidIDs(t *testing.T) {
	tests := []struct {
		name   string
		prefix Prefix
	}{
		{"Snapshot", PrefixSnapshot},
		{"AuditEvent", PrefixAuditEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generated := New(tt.prefix)
			if generated.IsNil() {
				t.Fatal("New returned nil ID")
			}
			if generated.Prefix() != tt.prefix {
				t.Errorf("Prefix: got %q, want %q", generated.Prefix(), tt.prefix)
			}
			if !strings.HasPrefix(generated.String(), string(tt.prefix)+"_") {
				t.Errorf("String %q does not start with %q", generated.String(), tt.prefix)
			}
		})
	}
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := NewSnapshotID().String()
		if seen[s] {
			t.Fatalf("duplicate ID generated: %s", s)
		}
		seen[s] = true
	}
}

func TestParseRoundTrip(t *testing.T) {
	original := NewSnapshotID()

	parsed, err := Parse(original.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.String() != original.String() {
		t.Errorf("round trip: got %q, want %q", parsed.String(), original.String())
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"NoSeparator", "snap01h2xcejqtf2nbrexx3vqjhp41"},
		{"BadSuffix", "snap_not-a-valid-suffix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.input); err == nil {
				t.Errorf("Parse(%q): expected error", tt.input)
			}
		})
	}
}

func TestParseWithPrefix(t *testing.T) {
	snapID := NewSnapshotID()

	if _, err := ParseSnapshotID(snapID.String()); err != nil {
		t.Errorf("ParseSnapshotID: %v", err)
	}
	if _, err := ParseAuditEventID(snapID.String()); err == nil {
		t.Error("ParseAuditEventID accepted a snapshot ID")
	}
}

func TestNilID(t *testing.T) {
	if !Nil.IsNil() {
		t.Error("Nil.IsNil() should be true")
	}
	if Nil.String() != "" {
		t.Errorf("Nil.String() = %q, want empty", Nil.String())
	}
	if Nil.Prefix() != "" {
		t.Errorf("Nil.Prefix() = %q, want empty", Nil.Prefix())
	}
}

func TestKSortable(t *testing.T) {
	// Sequentially generated IDs with the same prefix must sort in
	// generation order; store backends rely on this to pick the latest
	// snapshot.
	prev := NewSnapshotID().String()
	for i := 0; i < 100; i++ {
		next := NewSnapshotID().String()
		if next < prev {
			t.Fatalf("IDs not K-sortable: %q < %q", next, prev)
		}
		prev = next
	}
}

func TestTextMarshaling(t *testing.T) {
	original := NewAuditEventID()

	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}

	var decoded ID
	if err := decoded.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if decoded.String() != original.String() {
		t.Errorf("round trip: got %q, want %q", decoded.String(), original.String())
	}

	var nilDecoded ID
	if err := nilDecoded.UnmarshalText(nil); err != nil {
		t.Fatalf("UnmarshalText(nil): %v", err)
	}
	if !nilDecoded.IsNil() {
		t.Error("UnmarshalText of empty input should produce Nil")
	}
}

func TestSQLValueScan(t *testing.T) {
	original := NewSnapshotID()

	v, err := original.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var scanned ID
	if err := scanned.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if scanned.String() != original.String() {
		t.Errorf("round trip: got %q, want %q", scanned.String(), original.String())
	}

	nilValue, err := Nil.Value()
	if err != nil {
		t.Fatalf("Nil.Value: %v", err)
	}
	if nilValue != nil {
		t.Errorf("Nil.Value() = %v, want nil", nilValue)
	}

	var nilScanned ID
	if err := nilScanned.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if !nilScanned.IsNil() {
		t.Error("Scan(nil) should produce Nil")
	}

	if err := scanned.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}
