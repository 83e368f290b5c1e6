package middlewares

import (
	"time"

	"spyserver/auth"
	"spyserver/models"

	jwt "github.com/dgrijalva/jwt-go"
)

const tokenLifetime = 72 * time.Hour

// GenerateToken issues a signed JWT for the user. The token is the only
// credential a client holds, so its lifetime doubles as the account
// lifetime.
func GenerateToken(userID string) (string, error) {
	claims := &models.Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenLifetime).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(auth.JwtKey)
}
