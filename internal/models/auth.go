package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims is the claim set of both access and refresh tokens.
type TokenClaims struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}
