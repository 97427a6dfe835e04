package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/MadiMKHB/chemical-sales-dashboard/internal/infrastructure/config"
)

// KeyCost is the bcrypt cost used by HashKey
const KeyCost = 12

// ErrInvalidCredentials is returned for an unknown viewer or a wrong key
var ErrInvalidCredentials = errors.New("invalid viewer name or access key")

// compared against when the viewer is unknown so both paths run bcrypt
var placeholderHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder"), bcrypt.MinCost)

// KeyRing verifies viewer access keys against their bcrypt hashes
type KeyRing struct {
	keys map[string][]byte
}

// NewKeyRing indexes the configured keys by viewer name
func NewKeyRing(keys []config.AccessKey) *KeyRing {
	ring := &KeyRing{keys: make(map[string][]byte, len(keys))}
	for _, k := range keys {
		ring.keys[k.Name] = []byte(k.Hash)
	}
	return ring
}

// Verify checks a viewer's key
func (r *KeyRing) Verify(name, key string) error {
	hash, ok := r.keys[name]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(placeholderHash, []byte(key))
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(key)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Len returns the number of configured viewers
func (r *KeyRing) Len() int { return len(r.keys) }

// HashKey produces the bcrypt hash stored in configuration
func HashKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("access key is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), KeyCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

