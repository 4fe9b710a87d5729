package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const saltBytes = 16

// Digest returns the stored form of a password: the lowercase hex SHA-256 of
// password immediately followed by salt.
func Digest(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// NewSalt returns a random hex salt.
func NewSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// CheckPassword reports whether password matches the stored hash. Records
// imported from bcrypt-based systems ("$2a$", "$2b$", "$2y$") are verified
// with bcrypt and ignore salt; everything else is a salted SHA-256 digest.
func CheckPassword(stored, salt, password string) bool {
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	want := Digest(password, salt)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(want)) == 1
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}
