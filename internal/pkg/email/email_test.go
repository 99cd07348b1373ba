package email

import (
	"encoding/hex"
	"testing"
)

func TestGenerateToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := GenerateToken()
		if err != nil {
			t.Fatalf("GenerateToken returned error: %v", err)
		}
		if len(token) != 64 {
			t.Fatalf("token length %d, want 64 hex characters", len(token))
		}
		if _, err := hex.DecodeString(token); err != nil {
			t.Fatalf("token %q is not hex: %v", token, err)
		}
		if seen[token] {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = true
	}
}
