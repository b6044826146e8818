package dto

import (
	"time"

	"github.com/transify-app/transify-api/internal/models"
)

// InviteRequest captures the payload for inviting a new admin.
type InviteRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Role            string `json:"role" validate:"required"`
	OrganizationID  string `json:"organization_id" validate:"required"`
	InvitedByUserID string `json:"invited_by_user_id" validate:"required"`
}

// InviteSummary is the invite slice echoed back to the caller after a
// successful invite.
type InviteSummary struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

// InviteResponse wraps the invite summary plus delivery outcome. EmailError is
// set when the invite was created but the mail could not be delivered; the
// accept URL can then be shared out-of-band.
type InviteResponse struct {
	Invite     InviteSummary `json:"invite"`
	AcceptURL  string        `json:"accept_url"`
	EmailError string        `json:"email_error,omitempty"`
}

// ChangeRoleRequest captures the payload for changing an admin's role.
type ChangeRoleRequest struct {
	UserID          string `json:"user_id" validate:"required"`
	NewRole         string `json:"new_role" validate:"required"`
	ChangedByUserID string `json:"changed_by_user_id" validate:"required"`
	OrganizationID  string `json:"organization_id" validate:"required"`
}

// RemoveRequest captures the payload for disabling an admin account.
type RemoveRequest struct {
	UserID          string `json:"user_id" validate:"required"`
	RemovedByUserID string `json:"removed_by_user_id" validate:"required"`
	OrganizationID  string `json:"organization_id" validate:"required"`
}

// AcceptInviteRequest carries the invite token and email from the accept link.
type AcceptInviteRequest struct {
	Token string `json:"token" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// AcceptInviteResponse reports the outcome of accepting an invitation.
type AcceptInviteResponse struct {
	OrganizationID string `json:"organization_id,omitempty"`
	AlreadyActive  bool   `json:"already_active,omitempty"`
}

// UpdateNameRequest captures the one-time display-name update after accepting.
type UpdateNameRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=1,max=255"`
}

// AdminResponse serializes an admin account for list and login payloads.
type AdminResponse struct {
	UserID          string     `json:"user_id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	OrganizationID  string     `json:"organization_id"`
	Role            string     `json:"role"`
	Status          string     `json:"status"`
	InvitedBy       string     `json:"invited_by,omitempty"`
	InviteToken     *string    `json:"invite_token,omitempty"`
	InviteExpiresAt *time.Time `json:"invite_expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ActivatedAt     *time.Time `json:"activated_at,omitempty"`
	LastActive      *time.Time `json:"last_active,omitempty"`
	DisabledAt      *time.Time `json:"disabled_at,omitempty"`
}

// NewAdminResponse converts an admin model into a DTO.
func NewAdminResponse(admin models.AdminUser) AdminResponse {
	return AdminResponse{
		UserID:          admin.UserID,
		Email:           admin.Email,
		Name:            admin.Name,
		OrganizationID:  admin.OrganizationID,
		Role:            string(admin.Role),
		Status:          string(admin.Status),
		InvitedBy:       admin.InvitedBy,
		InviteToken:     admin.InviteToken,
		InviteExpiresAt: admin.InviteExpiresAt,
		CreatedAt:       admin.CreatedAt,
		ActivatedAt:     admin.ActivatedAt,
		LastActive:      admin.LastActive,
		DisabledAt:      admin.DisabledAt,
	}
}
