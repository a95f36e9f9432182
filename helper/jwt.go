package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
)

var ErrInvalidClaims = errors.New("token claims incomplete")

// ValidateToken verifies an HS256 token issued by the auth provider and
// returns the actor it identifies.
func ValidateToken(tokenString, secret string) (model.Actor, error) {
	claims := &model.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return model.Actor{}, err
	}
	if !token.Valid {
		return model.Actor{}, jwt.ErrSignatureInvalid
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil || id == uuid.Nil {
		return model.Actor{}, ErrInvalidClaims
	}

	role := model.Role(strings.ToLower(claims.Role))
	switch role {
	case model.RoleAdmin, model.RoleMember:
	default:
		return model.Actor{}, ErrInvalidClaims
	}

	return model.Actor{ID: id, Role: role}, nil
}

// SignToken issues a token for actor. The service itself never logs users
// in; this exists for local tooling and tests.
func SignToken(actor model.Actor, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := model.JWTClaims{
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
