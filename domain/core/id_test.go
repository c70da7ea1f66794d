package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseID tests cookie-style ID parsing
func TestParseID(t *testing.T) {
	valid := NewID()

	tests := []struct {
		input    string
		expected ID
		hasError bool
	}{
		{valid.String(), valid, false},
		{"  " + valid.String() + "  ", valid, false},
		{"", "", true},
		{"   ", "", true},
		{"not-a-uuid", "", true},
	}

	for _, tt := range tests {
		result, err := ParseID(tt.input)
		if tt.hasError {
			if err == nil {
				t.Errorf("ParseID(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseID(%q) unexpected error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("ParseID(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

// TestHashShort tests fingerprint display truncation
func TestHashShort(t *testing.T) {
	h := NewHash([]byte("name,age\nAda,36\n"))
	if len(h.String()) != 64 {
		t.Fatalf("Expected 64 hex chars, got %d", len(h.String()))
	}
	if h.Short() != h.String()[:12] {
		t.Errorf("Short() = %q, expected prefix %q", h.Short(), h.String()[:12])
	}
	if NewHash([]byte("x")) == NewHash([]byte("y")) {
		t.Error("Expected different inputs to hash differently")
	}
}
