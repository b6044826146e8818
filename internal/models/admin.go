package models

import (
	"strings"
	"time"

	"github.com/transify-app/transify-api/internal/rbac"
)

// AdminUser is a person's administrative membership in exactly one
// organization. Accounts are never deleted: removal sets status DISABLED and
// keeps the row for history. invite_token and invite_expires_at are set only
// while status is INVITED and cleared on activation.
type AdminUser struct {
	UserID          string      `gorm:"primaryKey;size:36;column:user_id" json:"user_id"`
	Email           string      `gorm:"size:255;not null;index:idx_admin_email_org" json:"email"`
	Name            string      `gorm:"size:255;not null" json:"name"`
	OrganizationID  string      `gorm:"size:36;not null;index:idx_admin_email_org" json:"organization_id"`
	Role            rbac.Role   `gorm:"size:16;not null" json:"role"`
	Status          rbac.Status `gorm:"size:16;not null" json:"status"`
	InvitedBy       string      `gorm:"size:36" json:"invited_by,omitempty"`
	InviteToken     *string     `gorm:"size:64;index" json:"invite_token,omitempty"`
	InviteExpiresAt *time.Time  `json:"invite_expires_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	ActivatedAt     *time.Time  `json:"activated_at,omitempty"`
	LastActive      *time.Time  `json:"last_active,omitempty"`
	DisabledAt      *time.Time  `json:"disabled_at,omitempty"`
	DisabledBy      string      `gorm:"size:36" json:"disabled_by,omitempty"`
}

// TableName keeps the collection name used by the rest of the platform.
func (AdminUser) TableName() string { return "admin_users" }

// DefaultNameForEmail derives the placeholder display name used until the
// admin sets a real one on first login.
func DefaultNameForEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return email
	}
	return local
}

// HasDefaultName reports whether the account still carries the email-derived
// placeholder name, which marks a first-time login.
func (a AdminUser) HasDefaultName() bool {
	return a.Name == DefaultNameForEmail(a.Email)
}
