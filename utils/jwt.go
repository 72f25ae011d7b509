package utils

import (
	"errors"
	"os"
	"time"

	"handyhub/config"

	"github.com/golang-jwt/jwt"
)

func secretKey() []byte {
	if config.AppConfig.JWTSecret != "" {
		return []byte(config.AppConfig.JWTSecret)
	}
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateToken creates a signed JWT carrying the actor id (sub) and role.
// Tokens are normally issued by the auth collaborator; this is used by tools and tests.
func GenerateToken(subject, role string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	key := secretKey()
	if len(key) == 0 {
		return nil, errors.New("JWT secret is not configured")
	}
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
}

// ExtractActorFromToken returns the subject and role claims of a valid token.
func ExtractActorFromToken(tokenString string) (string, string, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", errors.New("token does not contain a valid 'sub' claim")
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", "", errors.New("token does not contain a valid 'role' claim")
	}
	return sub, role, nil
}
