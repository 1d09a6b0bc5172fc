package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/WesleyFreitsz/FitMindAI/internal"
)

type JWTProvider struct {
	secret []byte
	ttl    time.Duration
	logger internal.Logger
}

func NewJWTProvider(secret string, ttl time.Duration, logger internal.Logger) *JWTProvider {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &JWTProvider{secret: []byte(secret), ttl: ttl, logger: logger}
}

func (p *JWTProvider) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *JWTProvider) ValidateToken(ctx context.Context, tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		p.logger.Warnf("auth: invalid token: %v", err)
		return "", err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("auth: token has no subject")
	}
	return claims.Subject, nil
}

var _ Provider = (*JWTProvider)(nil)
