package dto

import (
	"time"

	"github.com/transify-app/transify-api/internal/models"
)

// AuditLogResponse serializes an audit trail entry for display.
type AuditLogResponse struct {
	ID                string                 `json:"id"`
	ActionType        string                 `json:"action_type"`
	PerformedByUserID string                 `json:"performed_by_user_id"`
	PerformedByEmail  string                 `json:"performed_by_email"`
	OrganizationID    string                 `json:"organization_id"`
	TargetUserID      string                 `json:"target_user_id,omitempty"`
	Details           string                 `json:"details,omitempty"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
	Timestamp         time.Time              `json:"timestamp"`
}

// NewAuditLogResponse converts an audit log model into a DTO.
func NewAuditLogResponse(entry models.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:                entry.ID,
		ActionType:        string(entry.ActionType),
		PerformedByUserID: entry.PerformedByUserID,
		PerformedByEmail:  entry.PerformedByEmail,
		OrganizationID:    entry.OrganizationID,
		TargetUserID:      entry.TargetUserID,
		Details:           entry.Details,
		Metadata:          entry.Metadata,
		Timestamp:         entry.CreatedAt,
	}
}
