package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/postsets/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Scopes a token may grant.
const (
	ScopeUser     = "user"
	ScopeMod      = "mod"
	ScopeInternal = "internal"
)

// Claims are the registered claims plus the numeric user id and the granted
// scopes.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64    `json:"user_id"`
	Scopes []string `json:"scopes,omitempty"`
}

func GenerateToken(userID int64, scopes []string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
		Scopes: scopes,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates tokenString and returns the caller it identifies.
func ParseToken(tokenString string, secretKey []byte) (Caller, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Caller{}, common.ErrTokenExpired
		}
		return Caller{}, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return Caller{}, common.ErrInvalidToken
	}

	return Caller{
		ID:            claims.UserID,
		Authenticated: true,
		Scopes:        slices.Clone(claims.Scopes),
	}, nil
}
