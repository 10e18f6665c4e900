package random

import (
	"crypto/rand"
	"encoding/base64"
)

// Random produces unguessable tokens; swap in mocks.MockRandom for tests
type Random interface {
	// Token returns n random bytes encoded as unpadded base64url
	Token(n int) string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Token returns n bytes from crypto/rand, base64url encoded
func (r *CryptoRandom) Token(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
