// Package credentials hashes and verifies account passwords.
package credentials

import "golang.org/x/crypto/bcrypt"

// Hasher turns passwords into salted hashes and checks them
type Hasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// Bcrypt implements Hasher with bcrypt
type Bcrypt struct {
	Cost int
}

// NewBcrypt returns a bcrypt hasher; a zero cost uses bcrypt.DefaultCost
func NewBcrypt(cost int) *Bcrypt {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{Cost: cost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (b *Bcrypt) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
