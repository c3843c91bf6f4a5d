package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPurposeOTP marks the short-lived token issued between the
// credential check and OTP verification; it grants no API access.
const TokenPurposeOTP = "otp"

type AccessClaims struct {
	UserID  string `json:"uid"`
	Role    string `json:"role"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

func GenerateAccessToken(secret string, userID string, role string, ttl time.Duration) (string, error) {
	return signToken(secret, AccessClaims{
		UserID: userID,
		Role:   role,
	}, userID, ttl)
}

// GenerateOTPToken issues the intermediate token that carries a login
// attempt across the OTP round trip.
func GenerateOTPToken(secret string, userID string, ttl time.Duration) (string, error) {
	return signToken(secret, AccessClaims{
		UserID:  userID,
		Purpose: TokenPurposeOTP,
	}, userID, ttl)
}

func signToken(secret string, claims AccessClaims, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Subject:   subject,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

func ParseAccessToken(tokenStr string, secret string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*AccessClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
