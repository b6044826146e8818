package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/transify-app/transify-api/internal/dto"
	"github.com/transify-app/transify-api/internal/models"
	"github.com/transify-app/transify-api/internal/rbac"
	"github.com/transify-app/transify-api/internal/repository"
	"github.com/transify-app/transify-api/internal/token"
	"github.com/transify-app/transify-api/pkg/mailer"
)

const defaultOtpTTL = 10 * time.Minute

var (
	// ErrNotAuthorized indicates the email has no admin account in the organization.
	ErrNotAuthorized = errors.New("email is not authorized for this organization")
	// ErrAccountDisabled indicates the admin account has been disabled.
	ErrAccountDisabled = errors.New("account has been disabled")
	// ErrOtpNotFound indicates no code record exists for the email.
	ErrOtpNotFound = errors.New("no code found, request a new one")
	// ErrOtpUsed indicates the code has already been consumed.
	ErrOtpUsed = errors.New("code has already been used")
	// ErrOtpExpired indicates the code's validity window has passed.
	ErrOtpExpired = errors.New("code has expired")
	// ErrOtpMismatch indicates the supplied code does not match the stored one.
	ErrOtpMismatch = errors.New("invalid verification code")
	// ErrOtpOrgMismatch indicates the code was issued for a different organization.
	ErrOtpOrgMismatch = errors.New("organization mismatch")
)

// AuthService handles the OTP login flow for admin accounts.
type AuthService interface {
	SendOtp(ctx context.Context, req dto.SendOtpRequest) error
	VerifyOtp(ctx context.Context, req dto.VerifyOtpRequest) (dto.LoginResponse, error)
}

type authService struct {
	admins    repository.AdminRepository
	otps      repository.OtpRepository
	orgs      repository.OrganizationRepository
	validator *validator.Validate
	audit     AuditRecorder
	mailer    mailer.Mailer
	issuer    *token.Issuer
	otpTTL    time.Duration
	logger    zerolog.Logger
}

// NewAuthService constructs the OTP login service.
func NewAuthService(
	admins repository.AdminRepository,
	otps repository.OtpRepository,
	orgs repository.OrganizationRepository,
	validate *validator.Validate,
	audit AuditRecorder,
	mail mailer.Mailer,
	issuer *token.Issuer,
	otpTTL time.Duration,
	logger zerolog.Logger,
) AuthService {
	if otpTTL <= 0 {
		otpTTL = defaultOtpTTL
	}

	return &authService{
		admins:    admins,
		otps:      otps,
		orgs:      orgs,
		validator: validate,
		audit:     audit,
		mailer:    mail,
		issuer:    issuer,
		otpTTL:    otpTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

// SendOtp issues a fresh 6-digit code for the admin, overwriting any previous
// live code for the email. Delivery failure is logged but does not fail the
// request; the stored code remains valid.
func (s *authService) SendOtp(ctx context.Context, req dto.SendOtpRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	account, err := s.admins.FindByEmailAndOrg(ctx, email, req.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAuthorized
		}
		return err
	}
	if account.Status == rbac.StatusDisabled {
		return ErrAccountDisabled
	}

	code, err := generateOtpCode()
	if err != nil {
		return err
	}

	now := time.Now()
	record := models.OneTimeCode{
		Code:           code,
		Email:          email,
		OrganizationID: req.OrganizationID,
		ExpiresAt:      now.Add(s.otpTTL),
		CreatedAt:      now,
	}
	if err := s.otps.Put(ctx, record); err != nil {
		return err
	}

	if err := s.mailer.SendOtp(email, code); err != nil {
		s.logger.Warn().Err(err).Str("email", email).Msg("otp email delivery failed")
	}

	return nil
}

// VerifyOtp validates the supplied code and logs the admin in. Codes are
// single-use: the used flag is set before any other side effect. A first
// successful login activates an INVITED account.
func (s *authService) VerifyOtp(ctx context.Context, req dto.VerifyOtpRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	record, err := s.otps.Get(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrOtpRecordNotFound) {
			return dto.LoginResponse{}, ErrOtpNotFound
		}
		return dto.LoginResponse{}, err
	}

	switch {
	case record.Used:
		return dto.LoginResponse{}, ErrOtpUsed
	case record.Expired(time.Now()):
		return dto.LoginResponse{}, ErrOtpExpired
	case record.Code != req.Otp:
		return dto.LoginResponse{}, ErrOtpMismatch
	case record.OrganizationID != req.OrganizationID:
		return dto.LoginResponse{}, ErrOtpOrgMismatch
	}

	if err := s.otps.MarkUsed(ctx, email); err != nil {
		return dto.LoginResponse{}, err
	}

	account, err := s.admins.FindByEmailAndOrg(ctx, email, req.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrAdminNotFound
		}
		return dto.LoginResponse{}, err
	}
	if account.Status == rbac.StatusDisabled {
		return dto.LoginResponse{}, ErrAccountDisabled
	}

	isFirstLogin := account.HasDefaultName()
	now := time.Now()

	if account.Status == rbac.StatusInvited {
		account.Status = rbac.StatusActive
		account.InviteToken = nil
		account.InviteExpiresAt = nil
		account.ActivatedAt = &now
	}
	account.LastActive = &now
	if err := s.admins.Save(ctx, &account); err != nil {
		return dto.LoginResponse{}, err
	}

	customToken, err := s.issuer.Issue(account.UserID, account.Email, account.Role, account.OrganizationID)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	if err := s.audit.Record(ctx, AuditEntry{
		Action:         models.AuditAdminLogin,
		ActorID:        account.UserID,
		ActorEmail:     email,
		OrganizationID: req.OrganizationID,
		Details:        fmt.Sprintf("Admin %s logged in with role %s", account.Name, account.Role),
	}); err != nil {
		return dto.LoginResponse{}, err
	}

	response := dto.LoginResponse{
		CustomToken:  customToken,
		IsFirstLogin: isFirstLogin,
		Admin:        dto.NewAdminResponse(account),
	}

	if org, err := s.orgs.GetByID(ctx, account.OrganizationID); err == nil {
		orgResponse := dto.NewOrganizationResponse(org)
		response.Organization = &orgResponse
	}

	return response, nil
}

// generateOtpCode draws a uniformly random 6-digit code, leading zeros kept.
func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
