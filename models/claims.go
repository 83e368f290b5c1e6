package models

import (
	jwt "github.com/dgrijalva/jwt-go"
)

// Claims is the JWT payload issued at registration and presented when a
// WebSocket connection authenticates.
type Claims struct {
	UserID string `json:"userId"`
	jwt.StandardClaims
}
