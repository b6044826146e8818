package models

import "time"

// OneTimeCode is the short-lived login credential keyed by lowercased email.
// At most one live code exists per email; issuing a new one overwrites the
// previous record. Stored in Redis rather than the document store.
type OneTimeCode struct {
	Code           string    `json:"otp"`
	Email          string    `json:"email"`
	OrganizationID string    `json:"organization_id"`
	ExpiresAt      time.Time `json:"expires_at"`
	CreatedAt      time.Time `json:"created_at"`
	Used           bool      `json:"used"`
}

// Expired reports whether the code's validity window has passed.
func (c OneTimeCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
