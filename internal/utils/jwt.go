package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the identity of the user acting on the catalog.
type Claims struct {
	UserCode string `json:"user_code"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// GenerateJWT signs an HS256 token for userCode valid for ttl.
func GenerateJWT(secret, userCode, email string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := Claims{
		UserCode: userCode,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userCode,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ValidateJWT parses and verifies tokenString. The user code falls back to the
// subject claim when user_code is absent.
func ValidateJWT(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserCode == "" {
		claims.UserCode = claims.Subject
	}
	if claims.UserCode == "" {
		return nil, ErrMissingUser
	}
	return claims, nil
}
