package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/cloudblog/internal/model"
)

// Claims represents session claims: the username and a token type.
type Claims struct {
	jwt.RegisteredClaims
	Username  string `json:"username"`
	TokenType string `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

// NewJWT creates a new session token manager with the provided secret key.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	return &JWT{secretKey: secretKey, ttl: ttl, now: time.Now}
}

var _ model.TokenManager = (*JWT)(nil)

const typeSession = "session"

// GenerateSessionToken creates a token for username and returns its JTI,
// which doubles as the session id.
func (j *JWT) GenerateSessionToken(username string) (string, string, time.Time, error) {
	if username == "" {
		return "", "", time.Time{}, errors.New("username is empty")
	}

	now := j.now()
	expiresAt := now.Add(j.ttl)
	jti := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username:  username,
		TokenType: typeSession,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, jti, expiresAt, nil
}

// ParseSessionToken validates the token and extracts the username and JTI.
func (j *JWT) ParseSessionToken(tokenString string) (string, string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid {
		return "", "", fmt.Errorf("session token is invalid")
	}
	if claims.TokenType != typeSession {
		return "", "", fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	if claims.Username == "" || claims.ID == "" {
		return "", "", fmt.Errorf("session token is missing claims")
	}
	return claims.Username, claims.ID, nil
}
