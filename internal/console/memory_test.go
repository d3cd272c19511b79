package console

import (
	"fmt"
	"strings"
	"testing"
)

func TestRedactMasksSecretLookingStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"hex private key", "exported key 0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"},
		{"bare hex blob", "material " + strings.Repeat("ab", 32) + " leaked"},
		{"provider key", "using sk-abcdefghijklmnop1234"},
		{"bearer token", "Authorization: Bearer abc123def456ghi789"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Redact(tt.input)
			if !strings.Contains(got, "[redacted]") {
				t.Fatalf("Redact(%q) = %q, nothing masked", tt.input, got)
			}
		})
	}

	plain := "reconcile 12 bots"
	if got := Redact(plain); got != plain {
		t.Fatalf("Redact over-masked: %q", got)
	}
}

func TestMemoryLogEvictsOldest(t *testing.T) {
	m := NewMemoryLog(3)
	for i := 0; i < 5; i++ {
		m.Append(fmt.Sprintf("entry %d", i))
	}
	got := m.Entries()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Text != "entry 2" || got[2].Text != "entry 4" {
		t.Fatalf("wrong eviction order: %+v", got)
	}
}

func TestMemoryLogRestoreRespectsCap(t *testing.T) {
	m := NewMemoryLog(2)
	entries := []MemoryEntry{{Text: "a"}, {Text: "b"}, {Text: "c"}}
	m.Restore(entries)
	got := m.Entries()
	if len(got) != 2 || got[0].Text != "b" {
		t.Fatalf("restore = %+v, want last two entries", got)
	}
}
