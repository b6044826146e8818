package models

import "time"

// Organization categories.
const (
	OrgCategorySchool    = "school"
	OrgCategoryCorporate = "corporate"
)

// Organization is a tenant (a school or a company) that admins, members and
// audit logs are scoped to. Created by seeding and immutable afterwards.
type Organization struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	Code        string    `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Category    string    `gorm:"size:16;not null" json:"category"`
	Address     string    `gorm:"size:255" json:"address,omitempty"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}
