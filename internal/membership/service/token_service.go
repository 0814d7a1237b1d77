package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/marcingarbarczyk/membership-service/internal/membership/service TokenGenerator

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/marcingarbarczyk/membership-service/internal/errors"
)

// TokenGenerator issues, refreshes and revokes the paired session
// credentials handed out on successful authentication.
type TokenGenerator interface {
	Generate(userID, email string) (*TokenPair, error)
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
	Revoke(ctx context.Context, refreshToken string) error
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// TokenPair is a freshly issued access/refresh credential pair with embedded
// expiry metadata.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// RefreshResult carries the new access credential issued for a still-valid
// refresh credential, plus the expiry metadata of both.
type RefreshResult struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

type TokenService struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	revoked RevocationList
}

func NewTokenService(accessSecret, refreshSecret string, accessMinutes, refreshMinutes int, revoked RevocationList) *TokenService {
	return &TokenService{
		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
		revoked:            revoked,
	}
}

func (ts *TokenService) Generate(userID, email string) (*TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(ts.AccessTokenExpiry)
	refreshExpiry := now.Add(ts.RefreshTokenExpiry)

	accessToken, err := ts.signToken(userID, email, now, accessExpiry, ts.AccessTokenSecret)
	if err != nil {
		return nil, err
	}

	refreshToken, err := ts.signToken(userID, email, now, refreshExpiry, ts.RefreshTokenSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExpiry,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

func (ts *TokenService) signToken(userID, email string, now, expiry time.Time, secret string) (string, error) {
	claims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (ts *TokenService) GetAccessTokenExpiry() time.Duration {
	return ts.AccessTokenExpiry
}

func (ts *TokenService) GetRefreshTokenExpiry() time.Duration {
	return ts.RefreshTokenExpiry
}

// VerifyAccessToken parses and validates the given access token string.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.parseToken(tokenString, ts.AccessTokenSecret)
}

func (ts *TokenService) parseToken(tokenString, secret string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// Refresh issues a new access credential for a valid, unrevoked refresh
// credential. Malformed, expired and revoked credentials all fail with
// ErrInvalidRefreshToken.
func (ts *TokenService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := ts.verifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	accessExpiry := now.Add(ts.AccessTokenExpiry)

	accessToken, err := ts.signToken(claims.UserID, claims.Email, now, accessExpiry, ts.AccessTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &RefreshResult{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiry,
		RefreshExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (ts *TokenService) verifyRefreshToken(ctx context.Context, refreshToken string) (*JWTCustomClaims, error) {
	claims, err := ts.parseToken(refreshToken, ts.RefreshTokenSecret)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	revoked, err := ts.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation list: %w", err)
	}
	if revoked {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	return claims, nil
}

// Revoke marks the refresh credential unusable for future refreshes. It is
// idempotent: revoking an already-invalid or expired credential is a no-op,
// not an error. The revocation entry lives exactly as long as the credential
// would have.
func (ts *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := ts.parseToken(refreshToken, ts.RefreshTokenSecret)
	if err != nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	return ts.revoked.Revoke(ctx, claims.ID, ttl)
}
