// Package auth contains handler relate to log in and create user account
package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// JwtIssuer is stamped into every access token and checked on validation
const JwtIssuer = "FlixHiring"

var secretKey = os.Getenv("SECRET_KEY")

// GenerateStandardToken creates an access token with the default one hour
// lifetime. The second return value is reserved for a refresh token.
func GenerateStandardToken(userID uuid.UUID) (string, string, error) {
	return GenerateTokenWithDuration(userID, time.Hour, JwtIssuer)
}

// GenerateTokenWithDuration creates an access token with a caller-chosen
// lifetime and issuer. Tests use it to mint expired or foreign tokens.
func GenerateTokenWithDuration(userID uuid.UUID, lifetime time.Duration, issuer string) (string, string, error) {

	generatedAccessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	signedToken, err := generatedAccessToken.SignedString([]byte(secretKey))
	if err != nil {
		return "", "", fmt.Errorf("Failed to sign token: %s", err)
	}

	return signedToken, "", nil
}

// ValidatedToken parses and verifies an access token signature
func ValidatedToken(encodeToken string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(encodeToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, isvalid := token.Method.(*jwt.SigningMethodHMAC); !isvalid {
			return nil, fmt.Errorf("Invalid token")
		}
		return []byte(secretKey), nil
	})
}
