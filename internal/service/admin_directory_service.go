package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/transify-app/transify-api/internal/dto"
	"github.com/transify-app/transify-api/internal/models"
	"github.com/transify-app/transify-api/internal/rbac"
	"github.com/transify-app/transify-api/internal/repository"
	"github.com/transify-app/transify-api/pkg/mailer"
)

const defaultInviteTTL = 48 * time.Hour

var (
	// ErrNotSuperAdmin indicates the caller lacks the super admin role.
	ErrNotSuperAdmin = errors.New("only super admins can manage admins")
	// ErrAdminNotFound indicates the referenced admin account does not exist.
	ErrAdminNotFound = errors.New("admin user not found")
	// ErrAlreadyActive indicates the invitee is already an active admin of the organization.
	ErrAlreadyActive = errors.New("admin is already active in this organization")
	// ErrInvalidRole indicates the supplied role is not one of the two known tiers.
	ErrInvalidRole = errors.New("invalid role")
	// ErrSelfAction indicates an admin attempted a management action on their own account.
	ErrSelfAction = errors.New("admins cannot perform this action on themselves")
	// ErrRemoveSuperAdmin indicates an attempt to remove a super admin without demoting first.
	ErrRemoveSuperAdmin = errors.New("cannot remove a super admin; demote them first")
	// ErrInviteNotFound indicates no account matches the invite token and email.
	ErrInviteNotFound = errors.New("invalid or expired invite link")
	// ErrInviteExpired indicates the invite link's validity window has passed.
	ErrInviteExpired = errors.New("invite link has expired")
	// ErrEmptyName indicates the display name is empty once markup is stripped.
	ErrEmptyName = errors.New("display name cannot be empty")
)

// AdminDirectoryService manages per-organization admin accounts and the
// invitation lifecycle.
type AdminDirectoryService interface {
	Invite(ctx context.Context, req dto.InviteRequest) (dto.InviteResponse, error)
	List(ctx context.Context, organizationID string) ([]dto.AdminResponse, error)
	ChangeRole(ctx context.Context, req dto.ChangeRoleRequest) error
	Remove(ctx context.Context, req dto.RemoveRequest) error
	AcceptInvite(ctx context.Context, req dto.AcceptInviteRequest) (dto.AcceptInviteResponse, error)
	UpdateDisplayName(ctx context.Context, req dto.UpdateNameRequest) error
	Profile(ctx context.Context, userID string) (dto.AdminResponse, error)
}

type adminDirectoryService struct {
	admins     repository.AdminRepository
	orgs       repository.OrganizationRepository
	validator  *validator.Validate
	audit      AuditRecorder
	mailer     mailer.Mailer
	appBaseURL string
	inviteTTL  time.Duration
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
}

// NewAdminDirectoryService constructs the admin directory service.
func NewAdminDirectoryService(
	admins repository.AdminRepository,
	orgs repository.OrganizationRepository,
	validate *validator.Validate,
	audit AuditRecorder,
	mail mailer.Mailer,
	appBaseURL string,
	inviteTTL time.Duration,
	logger zerolog.Logger,
) AdminDirectoryService {
	if inviteTTL <= 0 {
		inviteTTL = defaultInviteTTL
	}

	return &adminDirectoryService{
		admins:     admins,
		orgs:       orgs,
		validator:  validate,
		audit:      audit,
		mailer:     mail,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		inviteTTL:  inviteTTL,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger.With().Str("component", "admin_directory_service").Logger(),
	}
}

// Invite creates or re-issues an invitation for the given email. An existing
// INVITED or DISABLED account for the same (email, organization) pair is
// overwritten in place; an ACTIVE one is a conflict. Email delivery failure
// does not roll back the invite: the accept URL is returned so it can be
// shared out-of-band.
func (s *adminDirectoryService) Invite(ctx context.Context, req dto.InviteRequest) (dto.InviteResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.InviteResponse{}, err
	}

	role, ok := rbac.ParseRole(req.Role)
	if !ok {
		return dto.InviteResponse{}, ErrInvalidRole
	}

	inviter, err := s.admins.GetByID(ctx, req.InvitedByUserID)
	if err != nil || !rbac.CanManageAdmins(inviter.Role) {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.InviteResponse{}, err
		}
		return dto.InviteResponse{}, ErrNotSuperAdmin
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	now := time.Now()
	token := uuid.NewString()
	expiresAt := now.Add(s.inviteTTL)

	account, err := s.admins.FindByEmailAndOrg(ctx, email, req.OrganizationID)
	switch {
	case err == nil:
		if account.Status == rbac.StatusActive {
			return dto.InviteResponse{}, ErrAlreadyActive
		}
		// Re-invite: overwrite the INVITED or DISABLED record in place.
		account.Role = role
		account.Status = rbac.StatusInvited
		account.Name = models.DefaultNameForEmail(email)
		account.InvitedBy = req.InvitedByUserID
		account.InviteToken = &token
		account.InviteExpiresAt = &expiresAt
		account.CreatedAt = now
		account.ActivatedAt = nil
		account.DisabledAt = nil
		account.DisabledBy = ""
		if err := s.admins.Save(ctx, &account); err != nil {
			return dto.InviteResponse{}, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		account = models.AdminUser{
			UserID:          uuid.NewString(),
			Email:           email,
			Name:            models.DefaultNameForEmail(email),
			OrganizationID:  req.OrganizationID,
			Role:            role,
			Status:          rbac.StatusInvited,
			InvitedBy:       req.InvitedByUserID,
			InviteToken:     &token,
			InviteExpiresAt: &expiresAt,
			CreatedAt:       now,
		}
		if err := s.admins.Create(ctx, &account); err != nil {
			return dto.InviteResponse{}, err
		}
	default:
		return dto.InviteResponse{}, err
	}

	if err := s.audit.Record(ctx, AuditEntry{
		Action:         models.AuditAdminInviteSent,
		ActorID:        inviter.UserID,
		ActorEmail:     inviter.Email,
		OrganizationID: req.OrganizationID,
		TargetUserID:   email,
		Details:        fmt.Sprintf("Invited %s as %s", email, role),
	}); err != nil {
		return dto.InviteResponse{}, err
	}

	acceptURL := fmt.Sprintf("%s/accept-invite?token=%s&email=%s", s.appBaseURL, token, url.QueryEscape(email))

	response := dto.InviteResponse{
		Invite: dto.InviteSummary{
			Email:     email,
			Role:      string(role),
			Status:    string(rbac.StatusInvited),
			ExpiresAt: expiresAt,
		},
		AcceptURL: acceptURL,
	}

	orgName := s.organizationName(ctx, req.OrganizationID)
	inviterName := inviter.Name
	if inviterName == "" {
		inviterName = inviter.Email
	}

	if err := s.mailer.SendInvite(mailer.InviteParams{
		To:               email,
		OrganizationName: orgName,
		InviterName:      inviterName,
		RoleLabel:        roleLabel(role),
		AcceptURL:        acceptURL,
	}); err != nil {
		// The invite record stands; the caller gets the link to share manually.
		s.logger.Warn().Err(err).Str("email", email).Msg("invite email delivery failed")
		response.EmailError = err.Error()
	}

	return response, nil
}

// List returns all admin accounts of the organization, newest first.
func (s *adminDirectoryService) List(ctx context.Context, organizationID string) ([]dto.AdminResponse, error) {
	admins, err := s.admins.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AdminResponse, 0, len(admins))
	for _, admin := range admins {
		responses = append(responses, dto.NewAdminResponse(admin))
	}
	return responses, nil
}

func (s *adminDirectoryService) ChangeRole(ctx context.Context, req dto.ChangeRoleRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	newRole, ok := rbac.ParseRole(req.NewRole)
	if !ok {
		return ErrInvalidRole
	}

	changer, err := s.admins.GetByID(ctx, req.ChangedByUserID)
	if err != nil || !rbac.CanManageAdmins(changer.Role) {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return ErrNotSuperAdmin
	}

	if req.UserID == req.ChangedByUserID {
		return ErrSelfAction
	}

	target, err := s.admins.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		return err
	}

	oldRole := target.Role
	target.Role = newRole
	if err := s.admins.Save(ctx, &target); err != nil {
		return err
	}

	return s.audit.Record(ctx, AuditEntry{
		Action:         models.AuditAdminRoleChanged,
		ActorID:        changer.UserID,
		ActorEmail:     changer.Email,
		OrganizationID: req.OrganizationID,
		TargetUserID:   target.UserID,
		Details:        fmt.Sprintf("Changed role of %s from %s to %s", target.Email, oldRole, newRole),
	})
}

// Remove disables the target account. The row is retained with the disable
// timestamp and actor; it never authenticates again until re-invited.
func (s *adminDirectoryService) Remove(ctx context.Context, req dto.RemoveRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	remover, err := s.admins.GetByID(ctx, req.RemovedByUserID)
	if err != nil || !rbac.CanManageAdmins(remover.Role) {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return ErrNotSuperAdmin
	}

	if req.UserID == req.RemovedByUserID {
		return ErrSelfAction
	}

	target, err := s.admins.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		return err
	}

	if target.Role == rbac.RoleSuperAdmin {
		return ErrRemoveSuperAdmin
	}

	now := time.Now()
	target.Status = rbac.StatusDisabled
	target.DisabledAt = &now
	target.DisabledBy = remover.UserID
	if err := s.admins.Save(ctx, &target); err != nil {
		return err
	}

	return s.audit.Record(ctx, AuditEntry{
		Action:         models.AuditAdminRemoved,
		ActorID:        remover.UserID,
		ActorEmail:     remover.Email,
		OrganizationID: req.OrganizationID,
		TargetUserID:   target.UserID,
		Details:        fmt.Sprintf("Removed admin %s (%s)", target.Email, target.Name),
	})
}

// AcceptInvite activates the account matching the invite token. Accepting an
// already-activated invitation reports success with the already-active flag
// rather than an error, so the email link stays safe to re-click.
func (s *adminDirectoryService) AcceptInvite(ctx context.Context, req dto.AcceptInviteRequest) (dto.AcceptInviteResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AcceptInviteResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	account, err := s.admins.FindByInviteToken(ctx, req.Token, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// The token is cleared on activation, so a re-clicked link no longer
		// matches. Treat it as idempotent success when the account is active.
		active, activeErr := s.admins.FindActiveByEmail(ctx, email)
		if activeErr == nil {
			return dto.AcceptInviteResponse{OrganizationID: active.OrganizationID, AlreadyActive: true}, nil
		}
		if !errors.Is(activeErr, gorm.ErrRecordNotFound) {
			return dto.AcceptInviteResponse{}, activeErr
		}
		return dto.AcceptInviteResponse{}, ErrInviteNotFound
	}
	if err != nil {
		return dto.AcceptInviteResponse{}, err
	}

	if account.Status == rbac.StatusActive {
		return dto.AcceptInviteResponse{OrganizationID: account.OrganizationID, AlreadyActive: true}, nil
	}

	if account.InviteExpiresAt != nil && time.Now().After(*account.InviteExpiresAt) {
		return dto.AcceptInviteResponse{}, ErrInviteExpired
	}

	now := time.Now()
	account.Status = rbac.StatusActive
	account.InviteToken = nil
	account.InviteExpiresAt = nil
	account.ActivatedAt = &now
	account.LastActive = &now
	if err := s.admins.Save(ctx, &account); err != nil {
		return dto.AcceptInviteResponse{}, err
	}

	if err := s.audit.Record(ctx, AuditEntry{
		Action:         models.AuditAdminInviteAccepted,
		ActorID:        account.UserID,
		ActorEmail:     email,
		OrganizationID: account.OrganizationID,
		Details:        fmt.Sprintf("%s accepted invite as %s", email, account.Role),
	}); err != nil {
		return dto.AcceptInviteResponse{}, err
	}

	return dto.AcceptInviteResponse{OrganizationID: account.OrganizationID}, nil
}

// UpdateDisplayName sets the admin's real name after first login. Restricted
// to ACTIVE accounts.
func (s *adminDirectoryService) UpdateDisplayName(ctx context.Context, req dto.UpdateNameRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	account, err := s.admins.FindActiveByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		return err
	}

	name := strings.TrimSpace(s.sanitizer.Sanitize(req.Name))
	if name == "" {
		return ErrEmptyName
	}

	account.Name = name
	return s.admins.Save(ctx, &account)
}

// Profile returns the account backing a session token.
func (s *adminDirectoryService) Profile(ctx context.Context, userID string) (dto.AdminResponse, error) {
	account, err := s.admins.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminResponse{}, ErrAdminNotFound
		}
		return dto.AdminResponse{}, err
	}
	return dto.NewAdminResponse(account), nil
}

func (s *adminDirectoryService) organizationName(ctx context.Context, organizationID string) string {
	org, err := s.orgs.GetByID(ctx, organizationID)
	if err != nil || org.Name == "" {
		return "Your Organization"
	}
	return org.Name
}

func roleLabel(role rbac.Role) string {
	if role == rbac.RoleSuperAdmin {
		return "Super Admin"
	}
	return "Admin"
}
