package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/transify-app/transify-api/internal/models"
	"github.com/transify-app/transify-api/internal/rbac"
	"github.com/transify-app/transify-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedResult summarizes what a seeding run touched.
type SeedResult struct {
	Organizations int `json:"organizations"`
	SuperAdmins   int `json:"super_admins"`
}

// SeedService provisions the sample organizations and their initial super
// admins. Idempotent: organizations upsert by code, admins by (email, org).
type SeedService interface {
	Seed(ctx context.Context, token string) (SeedResult, error)
}

type seedService struct {
	orgs    repository.OrganizationRepository
	admins  repository.AdminRepository
	enabled bool
	token   string
	logger  zerolog.Logger
}

// NewSeedService constructs the seeding service.
func NewSeedService(orgs repository.OrganizationRepository, admins repository.AdminRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		orgs:    orgs,
		admins:  admins,
		enabled: enabled,
		token:   token,
		logger:  logger.With().Str("component", "seed_service").Logger(),
	}
}

type seedOrg struct {
	org        models.Organization
	adminEmail string
	adminName  string
}

func sampleOrganizations() []seedOrg {
	return []seedOrg{
		{
			org: models.Organization{
				Name:        "Delhi Public School, Bangalore",
				Code:        "DPS-BLR-001",
				Category:    models.OrgCategorySchool,
				Address:     "Koramangala, Bangalore",
				MemberCount: 320,
			},
			adminEmail: "admin@dps-blr.edu.in",
			adminName:  "Ravi Shankar",
		},
		{
			org: models.Organization{
				Name:        "International Academy, Indiranagar",
				Code:        "INT-ACD-042",
				Category:    models.OrgCategorySchool,
				Address:     "Indiranagar, Bangalore",
				MemberCount: 185,
			},
			adminEmail: "admin@intacademy.edu.in",
			adminName:  "Meera Nair",
		},
		{
			org: models.Organization{
				Name:        "TCS Bangalore Campus",
				Code:        "TCS-BLR-105",
				Category:    models.OrgCategoryCorporate,
				Address:     "Electronic City, Bangalore",
				MemberCount: 1200,
			},
			adminEmail: "transport@tcs-blr.com",
			adminName:  "Arjun Menon",
		},
		{
			org: models.Organization{
				Name:        "Infosys Electronic City",
				Code:        "INF-ECY-200",
				Category:    models.OrgCategoryCorporate,
				Address:     "Electronics City Phase 1, Bangalore",
				MemberCount: 2500,
			},
			adminEmail: "fleet@infosys-ecy.com",
			adminName:  "Priya Raghavan",
		},
	}
}

func (s *seedService) Seed(ctx context.Context, token string) (SeedResult, error) {
	if !s.enabled {
		return SeedResult{}, ErrSeedDisabled
	}
	if s.token == "" || token != s.token {
		return SeedResult{}, ErrSeedUnauthorized
	}

	var result SeedResult
	now := time.Now()

	for _, sample := range sampleOrganizations() {
		org := sample.org
		org.CreatedAt = now

		// Reuse the existing id when the code is already seeded so the
		// admin upsert below lands in the right tenant.
		existing, err := s.orgs.GetByCode(ctx, org.Code)
		switch {
		case err == nil:
			org.ID = existing.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			org.ID = uuid.NewString()
		default:
			return result, err
		}

		if err := s.orgs.Upsert(ctx, &org); err != nil {
			return result, err
		}
		result.Organizations++

		if err := s.seedSuperAdmin(ctx, org.ID, sample.adminEmail, sample.adminName, now); err != nil {
			return result, err
		}
		result.SuperAdmins++
	}

	s.logger.Info().Int("organizations", result.Organizations).Int("super_admins", result.SuperAdmins).Msg("seed completed")
	return result, nil
}

func (s *seedService) seedSuperAdmin(ctx context.Context, organizationID, email, name string, now time.Time) error {
	account, err := s.admins.FindByEmailAndOrg(ctx, email, organizationID)
	if err == nil {
		account.Role = rbac.RoleSuperAdmin
		account.Status = rbac.StatusActive
		account.Name = name
		return s.admins.Save(ctx, &account)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	account = models.AdminUser{
		UserID:         uuid.NewString(),
		Email:          email,
		Name:           name,
		OrganizationID: organizationID,
		Role:           rbac.RoleSuperAdmin,
		Status:         rbac.StatusActive,
		CreatedAt:      now,
		LastActive:     &now,
	}
	return s.admins.Create(ctx, &account)
}
