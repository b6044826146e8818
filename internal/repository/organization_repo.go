package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/transify-app/transify-api/internal/models"
)

// Organization name prefix scans are bounded by the highest codepoint, the
// same range trick the document store used.
const namePrefixUpperBound = "\uf8ff"

// OrganizationRepository reads tenant organizations.
type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (models.Organization, error)
	GetByCode(ctx context.Context, code string) (models.Organization, error)
	SearchByNamePrefix(ctx context.Context, prefix string, limit int) ([]models.Organization, error)
	Upsert(ctx context.Context, org *models.Organization) error
}

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository constructs the organization repository.
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (models.Organization, error) {
	var org models.Organization
	err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error
	return org, err
}

func (r *organizationRepository) GetByCode(ctx context.Context, code string) (models.Organization, error) {
	var org models.Organization
	err := r.db.WithContext(ctx).First(&org, "code = ?", strings.ToUpper(code)).Error
	return org, err
}

func (r *organizationRepository) SearchByNamePrefix(ctx context.Context, prefix string, limit int) ([]models.Organization, error) {
	var orgs []models.Organization
	err := r.db.WithContext(ctx).
		Where("name >= ? AND name <= ?", prefix, prefix+namePrefixUpperBound).
		Order("name ASC").
		Limit(limit).
		Find(&orgs).Error
	return orgs, err
}

// Upsert inserts the organization or refreshes it in place when the code is
// already present. Used by seeding only.
func (r *organizationRepository) Upsert(ctx context.Context, org *models.Organization) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "category", "address", "member_count"}),
		}).
		Create(org).Error
}
