package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/tuition/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"RequestID", id.NewRequestID, "req_"},
		{"EventID", id.NewEventID, "evt_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixRequest)
	if i.IsNil() {
		t.Fatal("New returned nil ID")
	}
	if i.Prefix() != id.PrefixRequest {
		t.Errorf("Prefix: got %q, want %q", i.Prefix(), id.PrefixRequest)
	}
}

func TestUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		s := id.NewRequestID().String()
		if seen[s] {
			t.Fatalf("duplicate ID generated: %s", s)
		}
		seen[s] = true
	}
}

func TestParseRoundtrip(t *testing.T) {
	original := id.NewEventID()

	parsed, err := id.Parse(original.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.String() != original.String() {
		t.Errorf("roundtrip: got %q, want %q", parsed.String(), original.String())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"garbage", "not-a-typeid"},
		{"bad suffix", "req_!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := id.Parse(tt.input); err == nil {
				t.Errorf("Parse(%q): expected error", tt.input)
			}
		})
	}
}

func TestParseWithPrefix(t *testing.T) {
	reqID := id.NewRequestID()

	if _, err := id.ParseRequestID(reqID.String()); err != nil {
		t.Errorf("ParseRequestID: %v", err)
	}
	if _, err := id.ParseEventID(reqID.String()); err == nil {
		t.Error("ParseEventID of a request ID: expected prefix mismatch error")
	}
}

func TestNilID(t *testing.T) {
	var nilID id.ID

	if !nilID.IsNil() {
		t.Error("zero value should be nil")
	}
	if nilID.String() != "" {
		t.Errorf("nil String: got %q, want empty", nilID.String())
	}
}

func TestTextMarshaling(t *testing.T) {
	original := id.NewRequestID()

	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}

	var back id.ID
	if err := back.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if back.String() != original.String() {
		t.Errorf("roundtrip: got %q, want %q", back.String(), original.String())
	}

	var empty id.ID
	if err := empty.UnmarshalText(nil); err != nil {
		t.Fatalf("UnmarshalText(nil): %v", err)
	}
	if !empty.IsNil() {
		t.Error("UnmarshalText of empty data should yield nil ID")
	}
}

func TestScan(t *testing.T) {
	original := id.NewEventID()

	var fromString id.ID
	if err := fromString.Scan(original.String()); err != nil {
		t.Fatalf("Scan string: %v", err)
	}
	if fromString.String() != original.String() {
		t.Errorf("Scan string: got %q", fromString.String())
	}

	var fromNil id.ID
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("Scan nil: %v", err)
	}
	if !fromNil.IsNil() {
		t.Error("Scan(nil) should yield nil ID")
	}

	var fromInt id.ID
	if err := fromInt.Scan(42); err == nil {
		t.Error("Scan(int): expected error")
	}
}
