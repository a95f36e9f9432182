package model

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Actor is the already-authenticated caller of an operation.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// JWTClaims are the claims issued by the external auth provider.
// The subject carries the user id.
type JWTClaims struct {
	Role string `json:"user_role"`
	jwt.RegisteredClaims
}

type ProfileData struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
