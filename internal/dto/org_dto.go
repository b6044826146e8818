package dto

import (
	"time"

	"github.com/transify-app/transify-api/internal/models"
)

// OrganizationResponse serializes a tenant for lookup and login payloads.
type OrganizationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Category    string    `json:"category"`
	Address     string    `json:"address,omitempty"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewOrganizationResponse converts an organization model into a DTO.
func NewOrganizationResponse(org models.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:          org.ID,
		Name:        org.Name,
		Code:        org.Code,
		Category:    org.Category,
		Address:     org.Address,
		MemberCount: org.MemberCount,
		CreatedAt:   org.CreatedAt,
	}
}
