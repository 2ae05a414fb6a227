package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. N/r/p and the key length match the values the
// stored user documents were originally written with, so existing
// hashes keep verifying.
const (
	saltLength = 16
	keyLength  = 64
	scryptN    = 16384
	scryptR    = 8
	scryptP    = 1
)

// HashPassword hashes a password using scrypt with a fresh random salt.
// Format: <salt hex>:<derived key hex>
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	saltHex := hex.EncodeToString(salt)

	key, err := deriveKey(password, saltHex)
	if err != nil {
		return "", err
	}

	return saltHex + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword reports whether password matches storedHash.
// A malformed stored hash never verifies.
func VerifyPassword(password, storedHash string) bool {
	saltHex, keyHex, ok := strings.Cut(storedHash, ":")
	if !ok || saltHex == "" || keyHex == "" {
		return false
	}

	expected, err := hex.DecodeString(keyHex)
	if err != nil || len(expected) != keyLength {
		return false
	}

	computed, err := deriveKey(password, saltHex)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(computed, expected) == 1
}

// the hex text of the salt (not its decoded bytes) is the scrypt salt
func deriveKey(password, saltHex string) ([]byte, error) {
	return scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, keyLength)
}
