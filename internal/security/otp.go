package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateOTP returns a 6-digit numeric one-time code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// HashOTP hashes a one-time code or reset token for at-rest storage.
// Codes are high-entropy and short-lived, so an unsalted digest is
// sufficient here.
func HashOTP(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// GenerateResetToken returns a password-reset token and the digest the
// server keeps. Only the digest is persisted; the token itself travels
// in the reset email.
func GenerateResetToken() (token string, digest string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate reset token: %w", err)
	}
	token = base64.RawURLEncoding.EncodeToString(buf)
	return token, HashOTP(token), nil
}
