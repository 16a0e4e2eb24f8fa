package app

import (
	"golang.org/x/crypto/bcrypt"
	"online-judge/internal/domain"
)

// AdminGate guards catalog changes with a single shared secret. It is a
// placeholder check with no lockout or rate limiting.
type AdminGate struct {
	secret string
	hash   []byte
}

// NewAdminGate compares candidates against secretHash (bcrypt) when set, and
// against the plain secret otherwise. An empty secret denies everyone.
func NewAdminGate(secret, secretHash string) *AdminGate {
	g := &AdminGate{secret: secret}
	if secretHash != "" {
		g.hash = []byte(secretHash)
	}
	return g
}

// Check is a single, case-sensitive attempt.
func (g *AdminGate) Check(candidate string) error {
	if len(g.hash) > 0 {
		if bcrypt.CompareHashAndPassword(g.hash, []byte(candidate)) != nil {
			return domain.ErrWrongAdminSecret
		}
		return nil
	}
	if g.secret == "" || candidate != g.secret {
		return domain.ErrWrongAdminSecret
	}
	return nil
}

// HashSecret produces a value suitable for admin.secret_hash.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
