package auth

import (
	"fmt"
	"os"
	"strings"

	"spyserver/models"

	"github.com/dgrijalva/jwt-go"
)

// JwtKey signs every issued token. Override it in production via
// JWT_SECRET.
var JwtKey = []byte(secretFromEnv())

func secretFromEnv() string {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return secret
	}
	return "development_secret"
}

// ParseToken validates a bearer token (with or without the "Bearer "
// prefix) and returns its claims.
func ParseToken(tokenString string) (*models.Claims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	return claims, nil
}
