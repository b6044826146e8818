package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditAction enumerates the privileged actions recorded in the audit trail.
type AuditAction string

const (
	AuditAdminLogin          AuditAction = "ADMIN_LOGIN"
	AuditAdminLogout         AuditAction = "ADMIN_LOGOUT"
	AuditAdminInviteSent     AuditAction = "ADMIN_INVITE_SENT"
	AuditAdminInviteAccepted AuditAction = "ADMIN_INVITE_ACCEPTED"
	AuditAdminRemoved        AuditAction = "ADMIN_REMOVED"
	AuditAdminRoleChanged    AuditAction = "ADMIN_ROLE_CHANGED"
	AuditSettingsUpdated     AuditAction = "SETTINGS_UPDATED"
	AuditVehicleAdded        AuditAction = "VEHICLE_ADDED"
	AuditDriverAdded         AuditAction = "DRIVER_ADDED"
	AuditRouteAdded          AuditAction = "ROUTE_ADDED"
	AuditMemberAdded         AuditAction = "MEMBER_ADDED"
)

// AuditLog is an immutable, append-only record of an administrative action.
// Rows are never updated or deleted.
type AuditLog struct {
	ID                string            `gorm:"primaryKey;size:36" json:"id"`
	ActionType        AuditAction       `gorm:"size:32;not null;index" json:"action_type"`
	PerformedByUserID string            `gorm:"size:255;not null" json:"performed_by_user_id"`
	PerformedByEmail  string            `gorm:"size:255;not null" json:"performed_by_email"`
	OrganizationID    string            `gorm:"size:36;not null;index" json:"organization_id"`
	TargetUserID      string            `gorm:"size:255" json:"target_user_id,omitempty"`
	Details           string            `gorm:"size:1024" json:"details,omitempty"`
	Metadata          datatypes.JSONMap `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt         time.Time         `gorm:"index" json:"timestamp"`
}
