// Package token implements derived, non-persisted account tokens. A token is
// an HMAC over the user's identity, a time bucket and a snapshot of mutable
// account state; it self-invalidates the moment that state changes, which is
// what makes it effectively single-use without a stored "consumed" flag.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/marcingarbarczyk/membership-service/internal/membership/domain"
)

// StateFunc renders the slice of user state a token is bound to.
type StateFunc func(u *domain.User) string

type Generator struct {
	secret []byte
	bucket time.Duration
	maxAge int64
	state  StateFunc

	// Now is the clock used for bucketing; overridable in tests.
	Now func() time.Time
}

// NewActivationGenerator builds a generator whose tokens are bound to the
// account's active flag: activating the account invalidates every token
// issued while it was inactive.
func NewActivationGenerator(secret string, bucketMinutes, maxBuckets int) *Generator {
	return newGenerator(secret, bucketMinutes, maxBuckets, func(u *domain.User) string {
		return strconv.FormatBool(u.IsActive)
	})
}

// NewPasswordResetGenerator builds a generator whose tokens are additionally
// bound to the current password hash, so a completed reset invalidates the
// token that performed it.
func NewPasswordResetGenerator(secret string, bucketMinutes, maxBuckets int) *Generator {
	return newGenerator(secret, bucketMinutes, maxBuckets, func(u *domain.User) string {
		return u.PasswordHash + ":" + strconv.FormatBool(u.IsActive)
	})
}

func newGenerator(secret string, bucketMinutes, maxBuckets int, state StateFunc) *Generator {
	return &Generator{
		secret: []byte(secret),
		bucket: time.Duration(bucketMinutes) * time.Minute,
		maxAge: int64(maxBuckets),
		state:  state,
		Now:    time.Now,
	}
}

// Make returns a token for the user's current state, valid until either the
// bucket-age window elapses or the bound state changes.
func (g *Generator) Make(u *domain.User) string {
	bucket := g.bucketAt(g.Now())
	return strconv.FormatInt(bucket, 36) + "-" + g.sign(u, bucket)
}

// Check reports whether token was issued for the user's current state within
// the bucket-age window. The signature is recomputed against live user state,
// never against anything stored.
func (g *Generator) Check(u *domain.User, token string) bool {
	if u == nil || token == "" {
		return false
	}

	encodedBucket, signature, found := strings.Cut(token, "-")
	if !found {
		return false
	}

	bucket, err := strconv.ParseInt(encodedBucket, 36, 64)
	if err != nil {
		return false
	}

	current := g.bucketAt(g.Now())
	if bucket > current || current-bucket >= g.maxAge {
		return false
	}

	return hmac.Equal([]byte(signature), []byte(g.sign(u, bucket)))
}

func (g *Generator) bucketAt(t time.Time) int64 {
	return t.Unix() / int64(g.bucket.Seconds())
}

func (g *Generator) sign(u *domain.User, bucket int64) string {
	mac := hmac.New(sha256.New, g.secret)
	fmt.Fprintf(mac, "%s:%d:%s", u.ID, bucket, g.state(u))
	return hex.EncodeToString(mac.Sum(nil))
}
