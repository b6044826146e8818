package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/transify-app/transify-api/internal/models"
	"github.com/transify-app/transify-api/internal/rbac"
)

// AdminRepository persists per-organization admin accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *models.AdminUser) error
	Save(ctx context.Context, admin *models.AdminUser) error
	GetByID(ctx context.Context, userID string) (models.AdminUser, error)
	FindByEmailAndOrg(ctx context.Context, email, organizationID string) (models.AdminUser, error)
	FindByInviteToken(ctx context.Context, token, email string) (models.AdminUser, error)
	FindActiveByEmail(ctx context.Context, email string) (models.AdminUser, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]models.AdminUser, error)
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository constructs the admin repository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) Save(ctx context.Context, admin *models.AdminUser) error {
	return r.db.WithContext(ctx).Save(admin).Error
}

func (r *adminRepository) GetByID(ctx context.Context, userID string) (models.AdminUser, error) {
	var admin models.AdminUser
	err := r.db.WithContext(ctx).First(&admin, "user_id = ?", userID).Error
	return admin, err
}

func (r *adminRepository) FindByEmailAndOrg(ctx context.Context, email, organizationID string) (models.AdminUser, error) {
	var admin models.AdminUser
	err := r.db.WithContext(ctx).
		First(&admin, "email = ? AND organization_id = ?", strings.ToLower(email), organizationID).Error
	return admin, err
}

func (r *adminRepository) FindByInviteToken(ctx context.Context, token, email string) (models.AdminUser, error) {
	var admin models.AdminUser
	err := r.db.WithContext(ctx).
		First(&admin, "invite_token = ? AND email = ?", token, strings.ToLower(email)).Error
	return admin, err
}

func (r *adminRepository) FindActiveByEmail(ctx context.Context, email string) (models.AdminUser, error) {
	var admin models.AdminUser
	err := r.db.WithContext(ctx).
		First(&admin, "email = ? AND status = ?", strings.ToLower(email), rbac.StatusActive).Error
	return admin, err
}

func (r *adminRepository) ListByOrganization(ctx context.Context, organizationID string) ([]models.AdminUser, error) {
	var admins []models.AdminUser
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&admins).Error
	return admins, err
}
