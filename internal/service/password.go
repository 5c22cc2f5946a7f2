package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 12

// PasswordHasher hashes and checks passwords with bcrypt. The salt and cost
// are embedded in the hash string.
type PasswordHasher struct {
	cost  int
	decoy []byte
}

const decoyPassword = "decoy-password-for-unknown-accounts"

func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d out of range", ErrMisconfigured, cost)
	}
	decoy, err := bcrypt.GenerateFromPassword([]byte(decoyPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash decoy password: %w", err)
	}
	return &PasswordHasher{cost: cost, decoy: decoy}, nil
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password exceeds 72 bytes", ErrInvalidInput)
		}
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A malformed hash is
// ErrCorruptCredential, never a plain mismatch.
func (h *PasswordHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrCorruptCredential, err)
	}
}

// VerifyDecoy spends the same bcrypt work as Verify against a fixed hash, so a
// login for an unknown account takes as long as one with a wrong password.
func (h *PasswordHasher) VerifyDecoy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.decoy, []byte(password))
}
