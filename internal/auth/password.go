package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// MaxPasswordBytes is bcrypt's input limit.
const MaxPasswordBytes = 72

// defaultLegacyIterations applies to legacy hashes that omit the count.
const defaultLegacyIterations = 260000

const legacyPrefix = "pbkdf2:"

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrPasswordTooLong = errors.New("password exceeds maximum length of 72 bytes")
	ErrUnsupportedHash = errors.New("unsupported password hash format")
)

// HashPassword creates a bcrypt hash of the password.
func HashPassword(password string, cost int) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a password with a bcrypt or legacy PBKDF2 hash.
func CheckPassword(password, hash string) error {
	if strings.HasPrefix(hash, legacyPrefix) {
		return checkLegacyPassword(password, hash)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return err
	}
	return nil
}

// checkLegacyPassword verifies "pbkdf2:sha256[:iterations]$salt$hexdigest".
func checkLegacyPassword(password, hash string) error {
	method, rest, ok := strings.Cut(hash, "$")
	if !ok {
		return ErrUnsupportedHash
	}
	salt, digest, ok := strings.Cut(rest, "$")
	if !ok || salt == "" || digest == "" {
		return ErrUnsupportedHash
	}

	parts := strings.Split(method, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "pbkdf2" || parts[1] != "sha256" {
		return ErrUnsupportedHash
	}
	iterations := defaultLegacyIterations
	if len(parts) == 3 {
		n, err := strconv.Atoi(parts[2])
		if err != nil || n <= 0 {
			return ErrUnsupportedHash
		}
		iterations = n
	}

	expected, err := hex.DecodeString(digest)
	if err != nil || len(expected) == 0 {
		return ErrUnsupportedHash
	}

	derived := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(expected), sha256.New)
	if subtle.ConstantTimeCompare(derived, expected) != 1 {
		return ErrInvalidPassword
	}
	return nil
}

// GenerateSessionSecret creates a random 32-byte secret, hex encoded.
func GenerateSessionSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
