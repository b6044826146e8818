package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/transify-app/transify-api/internal/dto"
	"github.com/transify-app/transify-api/internal/models"
	"github.com/transify-app/transify-api/internal/rbac"
	"github.com/transify-app/transify-api/internal/repository"
	"github.com/transify-app/transify-api/internal/token"
)

type authFixture struct {
	db     *gorm.DB
	svc    AuthService
	otps   repository.OtpRepository
	mailer *mailerStub
	orgID  string
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	db := newTestDB(t)
	org := createOrg(t, db, "TCS Bangalore Campus", "TCS-BLR-105")

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	mail := &mailerStub{}
	otps := repository.NewOtpRepository(redisClient)
	svc := NewAuthService(
		repository.NewAdminRepository(db),
		otps,
		repository.NewOrganizationRepository(db),
		validator.New(),
		NewAuditService(repository.NewAuditLogRepository(db), nil, zerolog.Nop()),
		mail,
		token.NewIssuer("auth-test-secret", time.Hour),
		10*time.Minute,
		zerolog.Nop(),
	)

	return &authFixture{db: db, svc: svc, otps: otps, mailer: mail, orgID: org.ID}
}

func (f *authFixture) createAdmin(t *testing.T, email, name string, status rbac.Status) models.AdminUser {
	t.Helper()

	account := models.AdminUser{
		UserID:         uuid.NewString(),
		Email:          email,
		Name:           name,
		OrganizationID: f.orgID,
		Role:           rbac.RoleAdmin,
		Status:         status,
	}
	require.NoError(t, f.db.Create(&account).Error)
	return account
}

func (f *authFixture) sendAndFetchCode(t *testing.T, email string) string {
	t.Helper()

	require.NoError(t, f.svc.SendOtp(context.Background(), dto.SendOtpRequest{
		Email:          email,
		OrganizationID: f.orgID,
	}))

	record, err := f.otps.Get(context.Background(), email)
	require.NoError(t, err)
	require.Len(t, record.Code, 6)
	return record.Code
}

func TestSendOtpStoresCodeAndEmails(t *testing.T) {
	f := newAuthFixture(t)
	f.createAdmin(t, "fleet@tcs-blr.com", "Arjun Menon", rbac.StatusActive)

	code := f.sendAndFetchCode(t, "fleet@tcs-blr.com")

	require.Len(t, f.mailer.otps, 1)
	require.Equal(t, code, f.mailer.otps[0])
}

func TestSendOtpOverwritesPreviousCode(t *testing.T) {
	f := newAuthFixture(t)
	f.createAdmin(t, "fleet@tcs-blr.com", "Arjun Menon", rbac.StatusActive)

	first := f.sendAndFetchCode(t, "fleet@tcs-blr.com")
	second := f.sendAndFetchCode(t, "fleet@tcs-blr.com")

	// The earlier code no longer verifies once a new one is issued.
	if first != second {
		_, err := f.svc.VerifyOtp(context.Background(), dto.VerifyOtpRequest{
			Email:          "fleet@tcs-blr.com",
			Otp:            first,
			OrganizationID: f.orgID,
		})
		require.ErrorIs(t, err, ErrOtpMismatch)
	}

	resp, err := f.svc.VerifyOtp(context.Background(), dto.VerifyOtpRequest{
		Email:          "fleet@tcs-blr.com",
		Otp:            second,
		OrganizationID: f.orgID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.CustomToken)
}

func TestSendOtpUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.SendOtp(context.Background(), dto.SendOtpRequest{
		Email:          "stranger@tcs-blr.com",
		OrganizationID: f.orgID,
	})
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestSendOtpDisabledAccount(t *testing.T) {
	f := newAuthFixture(t)
	f.createAdmin(t, "gone@tcs-blr.com", "Gone Admin", rbac.StatusDisabled)

	err := f.svc.SendOtp(context.Background(), dto.SendOtpRequest{
		Email:          "gone@tcs-blr.com",
		OrganizationID: f.orgID,
	})
	require.ErrorIs(t, err, ErrAccountDisabled)
}

func TestSendOtpEmailFailureKeepsCode(t *testing.T) {
	f := newAuthFixture(t)
	f.createAdmin(t, "fleet@tcs-blr.com", "Arjun Menon", rbac.StatusActive)
	f.mailer.fail = true

	require.NoError(t, f.svc.SendOtp(context.Background(), dto.SendOtpRequest{
		Email:          "fleet@tcs-blr.com",
		OrganizationID: f.orgID,
	}))

	record, err := f.otps.Get(context.Background(), "fleet@tcs-blr.com")
	require.NoError(t, err)
	require.Len(t, record.Code, 6)
}

func TestVerifyOtpIsSingleUse(t *testing.T) {
	f := newAuthFixture(t)
	f.createAdmin(t, "fleet@tcs-blr.com", "Arjun Menon", rbac.StatusActive)

	code := f.sendAndFetchCode(t, "fleet@tcs-blr.com")
	req := dto.VerifyOtpRequest{
		Email:          "fleet@tcs-blr.com",
		Otp:            code,
		OrganizationID: f.orgID,
	}

	resp, err := f.svc.VerifyOtp(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, resp.CustomToken)

	_, err = f.svc.VerifyOtp(context.Background(), req)
	require.ErrorIs(t, err, ErrOtpUsed)
}

func TestVerifyOtpExpiredCode(t *testing.T) {
	f := newAuthFixture(t)
	f.createAdmin(t, "fleet@tcs-blr.com", "Arjun Menon", rbac.StatusActive)

	now := time.Now()
	require.NoError(t, f.otps.Put(context.Background(), models.OneTimeCode{
		Code:           "123456",
		Email:          "fleet@tcs-blr.com",
		OrganizationID: f.orgID,
		ExpiresAt:      now.Add(-time.Minute),
		CreatedAt:      now.Add(-11 * time.Minute),
	}))

	_, err := f.svc.VerifyOtp(context.Background(), dto.VerifyOtpRequest{
		Email:          "fleet@tcs-blr.com",
		Otp:            "123456",
		OrganizationID: f.orgID,
	})
	require.ErrorIs(t, err, ErrOtpExpired)
}

func TestVerifyOtpWrongCode(t *testing.T) {
	f := newAuthFixture(t)
	f.createAdmin(t, "fleet@tcs-blr.com", "Arjun Menon", rbac.StatusActive)

	code := f.sendAndFetchCode(t, "fleet@tcs-blr.com")
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, err := f.svc.VerifyOtp(context.Background(), dto.VerifyOtpRequest{
		Email:          "fleet@tcs-blr.com",
		Otp:            wrong,
		OrganizationID: f.orgID,
	})
	require.ErrorIs(t, err, ErrOtpMismatch)

	// A wrong attempt does not burn the code.
	resp, err := f.svc.VerifyOtp(context.Background(), dto.VerifyOtpRequest{
		Email:          "fleet@tcs-blr.com",
		Otp:            code,
		OrganizationID: f.orgID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.CustomToken)
}

func TestVerifyOtpRejectsAccountDisabledAfterSend(t *testing.T) {
	f := newAuthFixture(t)
	admin := f.createAdmin(t, "fleet@tcs-blr.com", "Arjun Menon", rbac.StatusActive)

	code := f.sendAndFetchCode(t, "fleet@tcs-blr.com")

	require.NoError(t, f.db.Model(&models.AdminUser{}).
		Where("user_id = ?", admin.UserID).
		Update("status", rbac.StatusDisabled).Error)

	_, err := f.svc.VerifyOtp(context.Background(), dto.VerifyOtpRequest{
		Email:          "fleet@tcs-blr.com",
		Otp:            code,
		OrganizationID: f.orgID,
	})
	require.ErrorIs(t, err, ErrAccountDisabled)
}

func TestVerifyOtpNoCodeRequested(t *testing.T) {
	f := newAuthFixture(t)
	f.createAdmin(t, "fleet@tcs-blr.com", "Arjun Menon", rbac.StatusActive)

	_, err := f.svc.VerifyOtp(context.Background(), dto.VerifyOtpRequest{
		Email:          "fleet@tcs-blr.com",
		Otp:            "123456",
		OrganizationID: f.orgID,
	})
	require.ErrorIs(t, err, ErrOtpNotFound)
}

func TestVerifyOtpOrganizationMismatch(t *testing.T) {
	f := newAuthFixture(t)
	f.createAdmin(t, "fleet@tcs-blr.com", "Arjun Menon", rbac.StatusActive)

	code := f.sendAndFetchCode(t, "fleet@tcs-blr.com")

	_, err := f.svc.VerifyOtp(context.Background(), dto.VerifyOtpRequest{
		Email:          "fleet@tcs-blr.com",
		Otp:            code,
		OrganizationID: uuid.NewString(),
	})
	require.ErrorIs(t, err, ErrOtpOrgMismatch)
}

func TestVerifyOtpActivatesInvitedAccount(t *testing.T) {
	f := newAuthFixture(t)

	inviteToken := uuid.NewString()
	expires := time.Now().Add(48 * time.Hour)
	account := models.AdminUser{
		UserID:          uuid.NewString(),
		Email:           "new.hire@tcs-blr.com",
		Name:            models.DefaultNameForEmail("new.hire@tcs-blr.com"),
		OrganizationID:  f.orgID,
		Role:            rbac.RoleAdmin,
		Status:          rbac.StatusInvited,
		InviteToken:     &inviteToken,
		InviteExpiresAt: &expires,
	}
	require.NoError(t, f.db.Create(&account).Error)

	code := f.sendAndFetchCode(t, "new.hire@tcs-blr.com")
	resp, err := f.svc.VerifyOtp(context.Background(), dto.VerifyOtpRequest{
		Email:          "new.hire@tcs-blr.com",
		Otp:            code,
		OrganizationID: f.orgID,
	})
	require.NoError(t, err)
	require.True(t, resp.IsFirstLogin)
	require.Equal(t, string(rbac.StatusActive), resp.Admin.Status)
	require.Nil(t, resp.Admin.InviteToken)
	require.NotNil(t, resp.Organization)
	require.Equal(t, "TCS Bangalore Campus", resp.Organization.Name)

	var saved models.AdminUser
	require.NoError(t, f.db.Where("user_id = ?", account.UserID).First(&saved).Error)
	require.Equal(t, rbac.StatusActive, saved.Status)
	require.Nil(t, saved.InviteToken)
	require.NotNil(t, saved.ActivatedAt)
	require.NotNil(t, saved.LastActive)
}

func TestVerifyOtpIssuesTokenWithClaims(t *testing.T) {
	f := newAuthFixture(t)
	admin := f.createAdmin(t, "fleet@tcs-blr.com", "Arjun Menon", rbac.StatusActive)

	code := f.sendAndFetchCode(t, "fleet@tcs-blr.com")
	resp, err := f.svc.VerifyOtp(context.Background(), dto.VerifyOtpRequest{
		Email:          "fleet@tcs-blr.com",
		Otp:            code,
		OrganizationID: f.orgID,
	})
	require.NoError(t, err)
	require.False(t, resp.IsFirstLogin)

	issuer := token.NewIssuer("auth-test-secret", time.Hour)
	claims, err := issuer.Parse(resp.CustomToken)
	require.NoError(t, err)
	require.Equal(t, admin.UserID, claims.Subject)
	require.Equal(t, "fleet@tcs-blr.com", claims.Email)
	require.Equal(t, rbac.RoleAdmin, claims.AdminRole)
	require.Equal(t, f.orgID, claims.OrganizationID)
}

func TestVerifyOtpWritesLoginAudit(t *testing.T) {
	f := newAuthFixture(t)
	f.createAdmin(t, "fleet@tcs-blr.com", "Arjun Menon", rbac.StatusActive)

	code := f.sendAndFetchCode(t, "fleet@tcs-blr.com")
	_, err := f.svc.VerifyOtp(context.Background(), dto.VerifyOtpRequest{
		Email:          "fleet@tcs-blr.com",
		Otp:            code,
		OrganizationID: f.orgID,
	})
	require.NoError(t, err)

	var entry models.AuditLog
	require.NoError(t, f.db.Where("organization_id = ?", f.orgID).First(&entry).Error)
	require.Equal(t, models.AuditAdminLogin, entry.ActionType)
	require.Equal(t, "fleet@tcs-blr.com", entry.PerformedByEmail)
}
