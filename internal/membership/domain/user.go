package domain

import "time"

// User is a membership account identified by its e-mail address. Accounts are
// created inactive and become active through the activation token flow.
type User struct {
	ID               string
	Email            string
	FirstName        string
	LastName         string
	PasswordHash     string
	IsActive         bool
	ActivationDate   *time.Time
	DeactivationDate *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Activate flips the account to active. The first activation stamps the
// activation date; any prior deactivation stamp is cleared.
func (u *User) Activate(now time.Time) {
	u.IsActive = true
	if u.ActivationDate == nil {
		u.ActivationDate = &now
	}
	u.DeactivationDate = nil
	u.UpdatedAt = now
}

// Deactivate flips the account to inactive and stamps the deactivation date.
func (u *User) Deactivate(now time.Time) {
	u.IsActive = false
	u.DeactivationDate = &now
	u.UpdatedAt = now
}

// DeviceFamily describes one side of a device descriptor (os or browser).
type DeviceFamily struct {
	Family  string `json:"family"`
	Version string `json:"version"`
}

// DeviceInfo is the browser/OS descriptor attached to a login attempt.
type DeviceInfo struct {
	OS      DeviceFamily `json:"os"`
	Browser DeviceFamily `json:"browser"`
}

// GeoPayload is the geolocation document attached to a login attempt. Failed
// lookups carry an "errors" key instead of location fields.
type GeoPayload map[string]any

// LoginAttempt is recorded for every login submission, before credentials are
// verified. UserID and Successful are set once, only when verification
// succeeds; rows are never updated otherwise.
type LoginAttempt struct {
	ID          string
	UserID      *string
	Username    string
	IP          string
	Browser     DeviceInfo
	Geolocation GeoPayload
	AttemptedAt time.Time
	Successful  bool
	CreatedAt   time.Time
}
