package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenLife = 24 * time.Hour

type CustomClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// Development fallback, never used when the env is configured.
		secret = "neatify-dev-secret"
	}
	return []byte(secret)
}

func refreshSecret() []byte {
	secret := os.Getenv("REFRESH_TOKEN_SECRET")
	if secret == "" {
		return jwtSecret()
	}
	return []byte(secret)
}

func tokenLife(envKey string) time.Duration {
	if v := os.Getenv(envKey); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultTokenLife
}

// GenerateToken signs an access token carrying the subject id and role.
// Role is one of User, Cleaner, Admin.
func GenerateToken(userID uint, role string) (string, error) {
	return sign(userID, role, jwtSecret(), tokenLife("JWT_TOKEN_LIFE"))
}

// GenerateRefreshToken signs a long-lived token with the refresh secret.
func GenerateRefreshToken(userID uint, role string) (string, error) {
	return sign(userID, role, refreshSecret(), tokenLife("REFRESH_TOKEN_LIFE"))
}

func sign(userID uint, role string, secret []byte, life time.Duration) (string, error) {
	claims := &CustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(life)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "Neatify",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// TokenRemainingLife reports how long until the token expires, zero for
// tokens that are unreadable or already expired. The signature is not
// checked; callers only use this to size blacklist entries.
func TokenRemainingLife(tokenString string) time.Duration {
	claims := &CustomClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return 0
	}
	if claims.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ParseToken validates an access token, including the blacklist check.
func ParseToken(tokenString string) (*CustomClaims, error) {
	if IsTokenBlacklisted(tokenString) {
		return nil, errors.New("token has been revoked")
	}
	return parse(tokenString, jwtSecret())
}

// ParseRefreshToken validates a refresh token.
func ParseRefreshToken(tokenString string) (*CustomClaims, error) {
	return parse(tokenString, refreshSecret())
}

func parse(tokenString string, secret []byte) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
