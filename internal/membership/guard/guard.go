// Package guard records login attempts and throttles repeat failures per
// source IP over a rolling window.
package guard

//go:generate mockgen -destination=../../mocks/mock_login_attempt_store.go -package=mocks github.com/marcingarbarczyk/membership-service/internal/membership/domain LoginAttemptStore
//go:generate mockgen -destination=../../mocks/mock_geo_resolver.go -package=mocks github.com/marcingarbarczyk/membership-service/internal/membership/geoip Resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/marcingarbarczyk/membership-service/internal/errors"
	"github.com/marcingarbarczyk/membership-service/internal/membership/device"
	"github.com/marcingarbarczyk/membership-service/internal/membership/domain"
	"github.com/marcingarbarczyk/membership-service/internal/membership/geoip"
)

type Guard struct {
	store       domain.LoginAttemptStore
	geo         geoip.Resolver
	window      time.Duration
	maxAttempts int

	now func() time.Time
}

func New(store domain.LoginAttemptStore, geo geoip.Resolver, windowMinutes, maxAttempts int) *Guard {
	return &Guard{
		store:       store,
		geo:         geo,
		window:      time.Duration(windowMinutes) * time.Minute,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Window returns the rolling-window length, for retry-after hints.
func (g *Guard) Window() time.Duration {
	return g.window
}

// RegisterAttempt records a failed attempt for the given submission, enriched
// with device and geolocation data, and returns it. When the IP already has
// maxAttempts failures inside the window, no row is created and
// ErrTooManyLoginAttempts is returned instead. Usernames that resolve to no
// account are still recorded, so counting works before identity is known.
//
// The count and the insert are deliberately not one transaction: concurrent
// submissions can race past the threshold by their own width, which bounds
// rather than perfectly enforces the ceiling. Closing the race would put a
// transaction on every login for no practical gain.
func (g *Guard) RegisterAttempt(ctx context.Context, ip, username, userAgent string) (*domain.LoginAttempt, error) {
	now := g.now()

	count, err := g.store.CountRecentFailedAttempts(ctx, ip, now.Add(-g.window))
	if err != nil {
		return nil, fmt.Errorf("failed to count login attempts: %w", err)
	}

	if count >= g.maxAttempts {
		return nil, apperrors.ErrTooManyLoginAttempts
	}

	attempt := &domain.LoginAttempt{
		ID:          uuid.NewString(),
		Username:    username,
		IP:          ip,
		Browser:     device.Parse(userAgent),
		Geolocation: g.geo.Resolve(ctx, ip),
		AttemptedAt: now,
		Successful:  false,
		CreatedAt:   now,
	}

	if err := g.store.CreateLoginAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to record login attempt: %w", err)
	}

	return attempt, nil
}

// MarkSucceeded flips the attempt's success flag and links the verified user.
// Called exactly once, only after credentials check out.
func (g *Guard) MarkSucceeded(ctx context.Context, attemptID, userID string) error {
	if err := g.store.MarkLoginSucceeded(ctx, attemptID, userID); err != nil {
		return fmt.Errorf("failed to mark login attempt succeeded: %w", err)
	}
	return nil
}
