package util

import "testing"

func TestHashOwnerKey(t *testing.T) {
	email := "jane.doe@example.com"
	got := HashOwnerKey(email)
	if got != HashOwnerKey(email) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestHashOwnerKeyNormalizesCase(t *testing.T) {
	if HashOwnerKey("Jane.Doe@Example.com ") != HashOwnerKey("jane.doe@example.com") {
		t.Fatalf("expected case-insensitive owner hashing")
	}
}
