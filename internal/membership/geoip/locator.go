// Package geoip resolves client IP addresses to approximate geolocation data
// using an external ip-api-style JSON endpoint. Lookups degrade to an error
// payload instead of failing the caller; results are cached in Redis.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/marcingarbarczyk/membership-service/internal/membership/domain"
)

const cacheKeyPrefix = "geoip:"

// Resolver is the lookup contract consumed by the login-attempt guard.
type Resolver interface {
	Resolve(ctx context.Context, ip string) domain.GeoPayload
}

type Locator struct {
	baseURL string
	client  *http.Client
	cache   *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
}

func NewLocator(baseURL string, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *Locator {
	return &Locator{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// Resolve returns the geolocation document for ip. An empty ip yields an
// empty payload; lookup failures of any kind yield {"errors": [...]} and are
// never surfaced as an error to the caller.
func (l *Locator) Resolve(ctx context.Context, ip string) domain.GeoPayload {
	if ip == "" {
		return domain.GeoPayload{}
	}

	if cached, ok := l.fromCache(ctx, ip); ok {
		return cached
	}

	payload := l.lookup(ctx, ip)
	if _, failed := payload["errors"]; !failed {
		l.store(ctx, ip, payload)
	}

	return payload
}

func (l *Locator) lookup(ctx context.Context, ip string) domain.GeoPayload {
	url := fmt.Sprintf("%s/%s", l.baseURL, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errorPayload("invalid lookup request")
	}

	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Warn("geolocation lookup failed", zap.String("ip", ip), zap.Error(err))
		return errorPayload("address lookup failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorPayload("address not found")
	}

	var payload domain.GeoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		l.logger.Warn("malformed geolocation response", zap.String("ip", ip), zap.Error(err))
		return errorPayload("malformed geolocation response")
	}

	// ip-api reports unroutable or unknown addresses with a 200 and a
	// status=fail body.
	if status, _ := payload["status"].(string); status == "fail" {
		return errorPayload("address not found")
	}

	return payload
}

func (l *Locator) fromCache(ctx context.Context, ip string) (domain.GeoPayload, bool) {
	if l.cache == nil {
		return nil, false
	}

	raw, err := l.cache.Get(ctx, cacheKeyPrefix+ip).Result()
	if err != nil {
		return nil, false
	}

	var payload domain.GeoPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, false
	}

	return payload, true
}

func (l *Locator) store(ctx context.Context, ip string, payload domain.GeoPayload) {
	if l.cache == nil {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}

	if err := l.cache.Set(ctx, cacheKeyPrefix+ip, raw, l.ttl).Err(); err != nil {
		l.logger.Warn("failed to cache geolocation payload", zap.String("ip", ip), zap.Error(err))
	}
}

func errorPayload(messages ...string) domain.GeoPayload {
	errs := make([]any, 0, len(messages))
	for _, m := range messages {
		errs = append(errs, m)
	}
	return domain.GeoPayload{"errors": errs}
}
