package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/quill/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer mints and verifies access and refresh JWTs. Each token class
// is signed with its own secret so one leaked secret cannot forge the other
// class. Verification is stateless: signature and expiry only.
type TokenIssuer struct {
	accessSecret       []byte
	refreshSecret      []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	now                func() time.Time
}

// NewTokenIssuer creates a TokenIssuer
func NewTokenIssuer(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:       []byte(accessSecret),
		refreshSecret:      []byte(refreshSecret),
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
		now:                time.Now,
	}
}

// SetClock replaces the time source used for issuing and verifying.
func (ti *TokenIssuer) SetClock(now func() time.Time) {
	ti.now = now
}

// AccessTokenExpiry is the lifetime of issued access tokens
func (ti *TokenIssuer) AccessTokenExpiry() time.Duration {
	return ti.accessTokenExpiry
}

// RefreshTokenExpiry is the lifetime of issued refresh tokens
func (ti *TokenIssuer) RefreshTokenExpiry() time.Duration {
	return ti.refreshTokenExpiry
}

// IssueAccessToken creates a short-lived bearer token
func (ti *TokenIssuer) IssueAccessToken(userID string, role models.Role) (string, error) {
	return ti.issue(models.TokenTypeAccess, userID, role, ti.accessTokenExpiry, ti.accessSecret)
}

// IssueRefreshToken creates a long-lived token used only to mint access tokens
func (ti *TokenIssuer) IssueRefreshToken(userID string, role models.Role) (string, error) {
	return ti.issue(models.TokenTypeRefresh, userID, role, ti.refreshTokenExpiry, ti.refreshSecret)
}

// VerifyAccessToken returns the principal of a valid access token, or
// ErrInvalidToken.
func (ti *TokenIssuer) VerifyAccessToken(tokenString string) (*models.Principal, error) {
	return ti.verify(tokenString, models.TokenTypeAccess, ti.accessSecret)
}

// VerifyRefreshToken returns the principal of a valid refresh token, or
// ErrInvalidToken.
func (ti *TokenIssuer) VerifyRefreshToken(tokenString string) (*models.Principal, error) {
	return ti.verify(tokenString, models.TokenTypeRefresh, ti.refreshSecret)
}

// Rotate exchanges a refresh token for a fresh access token carrying the
// same identity. The refresh token itself stays valid until it expires.
// Any verification failure is reported as ErrForbidden.
func (ti *TokenIssuer) Rotate(refreshToken string) (string, *models.Principal, error) {
	principal, err := ti.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", models.ErrForbidden, err)
	}

	accessToken, err := ti.IssueAccessToken(principal.UserID, principal.Role)
	if err != nil {
		return "", nil, err
	}

	return accessToken, principal, nil
}

func (ti *TokenIssuer) issue(tokenType, userID string, role models.Role, ttl time.Duration, secret []byte) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("cannot issue %s token without a user id", tokenType)
	}
	if !role.Valid() {
		return "", fmt.Errorf("cannot issue %s token for role %q", tokenType, role)
	}

	now := ti.now()
	claims := &models.TokenClaims{
		Type:   tokenType,
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return tokenString, nil
}

func (ti *TokenIssuer) verify(tokenString, tokenType string, secret []byte) (*models.Principal, error) {
	if tokenString == "" {
		return nil, models.ErrInvalidToken
	}

	claims := &models.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", models.ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Type != tokenType || claims.UserID == "" || !claims.Role.Valid() {
		return nil, models.ErrInvalidToken
	}

	return &models.Principal{UserID: claims.UserID, Role: claims.Role}, nil
}
