package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/transify-app/transify-api/internal/dto"
	"github.com/transify-app/transify-api/internal/repository"
)

const (
	minSearchLength  = 2
	maxSearchResults = 10
)

// ErrOrgNotFound indicates no organization matches the supplied code or id.
var ErrOrgNotFound = errors.New("organization not found")

// OrganizationService resolves tenant organizations for the connect flow.
type OrganizationService interface {
	LookupByCode(ctx context.Context, code string) (dto.OrganizationResponse, error)
	Search(ctx context.Context, query string, limit int) ([]dto.OrganizationResponse, error)
	Get(ctx context.Context, id string) (dto.OrganizationResponse, error)
}

type organizationService struct {
	repo   repository.OrganizationRepository
	logger zerolog.Logger
}

// NewOrganizationService constructs the organization directory service.
func NewOrganizationService(repo repository.OrganizationRepository, logger zerolog.Logger) OrganizationService {
	return &organizationService{
		repo:   repo,
		logger: logger.With().Str("component", "org_service").Logger(),
	}
}

func (s *organizationService) LookupByCode(ctx context.Context, code string) (dto.OrganizationResponse, error) {
	org, err := s.repo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.OrganizationResponse{}, ErrOrgNotFound
		}
		return dto.OrganizationResponse{}, err
	}
	return dto.NewOrganizationResponse(org), nil
}

// Search returns organizations whose name starts with the query. Queries
// shorter than two characters yield an empty list, not an error.
func (s *organizationService) Search(ctx context.Context, query string, limit int) ([]dto.OrganizationResponse, error) {
	query = strings.TrimSpace(query)
	if len(query) < minSearchLength {
		return []dto.OrganizationResponse{}, nil
	}

	if limit <= 0 || limit > maxSearchResults {
		limit = maxSearchResults
	}

	orgs, err := s.repo.SearchByNamePrefix(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		responses = append(responses, dto.NewOrganizationResponse(org))
	}
	return responses, nil
}

func (s *organizationService) Get(ctx context.Context, id string) (dto.OrganizationResponse, error) {
	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.OrganizationResponse{}, ErrOrgNotFound
		}
		return dto.OrganizationResponse{}, err
	}
	return dto.NewOrganizationResponse(org), nil
}
