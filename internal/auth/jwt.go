package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"docvault/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the authenticated identity inside an HS256 token. Subject
// holds the user id; Email and Role are duplicated so the HTTP layer can
// resolve an actor without a database round trip.
type Claims struct {
	jwt.RegisteredClaims
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// GenerateToken signs an access token for the given user.
func GenerateToken(user *model.User, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email: user.Email,
		Role:  user.Role,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies the signature and expiry of tokenString and returns its
// claims. Only HS256 is accepted.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
