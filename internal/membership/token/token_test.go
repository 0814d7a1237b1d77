package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcingarbarczyk/membership-service/internal/membership/domain"
	"github.com/marcingarbarczyk/membership-service/internal/membership/token"
)

const (
	testSecret    = "test-activation-secret"
	bucketMinutes = 15
	maxBuckets    = 4 // one hour of validity
)

func newInactiveUser() *domain.User {
	return &domain.User{
		ID:           "2f9c5a1e-6a3f-4f6e-9a0f-0c1d2e3f4a5b",
		Email:        "test@example.com",
		PasswordHash: "bcrypt-hash",
		IsActive:     false,
	}
}

func TestActivationToken_RoundTrip(t *testing.T) {
	g := token.NewActivationGenerator(testSecret, bucketMinutes, maxBuckets)
	user := newInactiveUser()

	tok := g.Make(user)

	assert.True(t, g.Check(user, tok))
}

func TestActivationToken_InvalidatedByActivation(t *testing.T) {
	g := token.NewActivationGenerator(testSecret, bucketMinutes, maxBuckets)
	user := newInactiveUser()

	tok := g.Make(user)
	require.True(t, g.Check(user, tok))

	user.Activate(time.Now())

	assert.False(t, g.Check(user, tok), "token must die when the active flag flips")
}

func TestActivationToken_Expiry(t *testing.T) {
	g := token.NewActivationGenerator(testSecret, bucketMinutes, maxBuckets)
	user := newInactiveUser()

	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	g.Now = func() time.Time { return issued }
	tok := g.Make(user)

	t.Run("valid inside the window", func(t *testing.T) {
		g.Now = func() time.Time { return issued.Add(45 * time.Minute) }
		assert.True(t, g.Check(user, tok))
	})

	t.Run("rejected once the bucket age is reached", func(t *testing.T) {
		g.Now = func() time.Time { return issued.Add(time.Duration(maxBuckets) * bucketMinutes * time.Minute) }
		assert.False(t, g.Check(user, tok))
	})

	t.Run("rejected when issued in the future", func(t *testing.T) {
		g.Now = func() time.Time { return issued.Add(-time.Hour) }
		assert.False(t, g.Check(user, tok))
	})
}

func TestActivationToken_Malformed(t *testing.T) {
	g := token.NewActivationGenerator(testSecret, bucketMinutes, maxBuckets)
	user := newInactiveUser()

	for _, tok := range []string{"", "no-dash-but-bad-bucket", "zz!!-abcdef", "123", g.Make(user) + "x"} {
		assert.False(t, g.Check(user, tok), "token %q must be rejected", tok)
	}
}

func TestActivationToken_BoundToUserAndSecret(t *testing.T) {
	g := token.NewActivationGenerator(testSecret, bucketMinutes, maxBuckets)
	user := newInactiveUser()
	other := newInactiveUser()
	other.ID = "b3d2c1a0-1111-2222-3333-444455556666"

	tok := g.Make(user)

	assert.False(t, g.Check(other, tok))

	foreign := token.NewActivationGenerator("another-secret", bucketMinutes, maxBuckets)
	assert.False(t, foreign.Check(user, tok))
}

func TestPasswordResetToken_InvalidatedByPasswordChange(t *testing.T) {
	g := token.NewPasswordResetGenerator(testSecret, bucketMinutes, maxBuckets)
	user := newInactiveUser()
	user.IsActive = true

	tok := g.Make(user)
	require.True(t, g.Check(user, tok))

	user.PasswordHash = "new-bcrypt-hash"

	assert.False(t, g.Check(user, tok), "token must die once the password changes")
}
