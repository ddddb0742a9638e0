package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrWrongTokenUse = errors.New("token type not valid for this operation")
)

type Claims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed HS256 access token.
func GenerateToken(secret string, expiration time.Duration, userID uint, username string) (string, error) {
	return generate(secret, expiration, userID, username, TokenTypeAccess)
}

// GenerateRefreshToken issues a signed HS256 refresh token.
func GenerateRefreshToken(secret string, expiration time.Duration, userID uint, username string) (string, error) {
	return generate(secret, expiration, userID, username, TokenTypeRefresh)
}

func generate(secret string, expiration time.Duration, userID uint, username, tokenType string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Username:  username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token failed: %w", err)
	}
	return signed, nil
}

// ParseToken validates an access token and returns its claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	return parse(secret, tokenString, TokenTypeAccess)
}

// ParseRefreshToken validates a refresh token and returns its claims.
func ParseRefreshToken(secret, tokenString string) (*Claims, error) {
	return parse(secret, tokenString, TokenTypeRefresh)
}

func parse(secret, tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenUse
	}
	return claims, nil
}
