package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"vincula/internal/config"
	"vincula/internal/domain"
)

type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TokenTTL,
	}
}

func (m *TokenManager) Issue(actor domain.Actor) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(actor.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Role: string(actor.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

func (m *TokenManager) Parse(tokenString string) (domain.Actor, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return domain.Actor{}, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return domain.Actor{}, fmt.Errorf("token is not valid")
	}

	actorID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("parsing subject claim: %w", err)
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return domain.Actor{}, fmt.Errorf("unknown role claim %q", claims.Role)
	}

	return domain.Actor{ID: uint(actorID), Role: role}, nil
}
