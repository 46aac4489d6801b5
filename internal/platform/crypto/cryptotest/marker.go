package cryptotest

import (
	"fmt"
	"strings"
)

// Marker wraps values as "enc(...)" so tests can see what was stored encrypted. Test use only.
type Marker struct{}

func (Marker) Encrypt(plaintext string) (string, error) { return "enc(" + plaintext + ")", nil }

func (Marker) Decrypt(ciphertext string) (string, error) {
	inner, ok := strings.CutPrefix(ciphertext, "enc(")
	if !ok || !strings.HasSuffix(inner, ")") {
		return "", fmt.Errorf("not a marker value: %q", ciphertext)
	}
	return strings.TrimSuffix(inner, ")"), nil
}
