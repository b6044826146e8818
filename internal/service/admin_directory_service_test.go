package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/transify-app/transify-api/internal/dto"
	"github.com/transify-app/transify-api/internal/models"
	"github.com/transify-app/transify-api/internal/rbac"
	"github.com/transify-app/transify-api/internal/repository"
	"github.com/transify-app/transify-api/pkg/mailer"
)

type mailerStub struct {
	invites []mailer.InviteParams
	otps    []string
	fail    bool
}

func (m *mailerStub) SendInvite(params mailer.InviteParams) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.invites = append(m.invites, params)
	return nil
}

func (m *mailerStub) SendOtp(to, code string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.otps = append(m.otps, code)
	return nil
}

type directoryFixture struct {
	db      *gorm.DB
	svc     AdminDirectoryService
	audit   AuditService
	mailer  *mailerStub
	orgID   string
	superID string
}

func newDirectoryFixture(t *testing.T) *directoryFixture {
	t.Helper()

	db := newTestDB(t)
	org := createOrg(t, db, "Delhi Public School", "DPS-BLR-001")

	super := models.AdminUser{
		UserID:         uuid.NewString(),
		Email:          "root@dps-blr.edu.in",
		Name:           "Ravi Shankar",
		OrganizationID: org.ID,
		Role:           rbac.RoleSuperAdmin,
		Status:         rbac.StatusActive,
	}
	require.NoError(t, db.Create(&super).Error)

	mail := &mailerStub{}
	audit := NewAuditService(repository.NewAuditLogRepository(db), nil, zerolog.Nop())
	svc := NewAdminDirectoryService(
		repository.NewAdminRepository(db),
		repository.NewOrganizationRepository(db),
		validator.New(),
		audit,
		mail,
		"https://app.transify.in/",
		48*time.Hour,
		zerolog.Nop(),
	)

	return &directoryFixture{db: db, svc: svc, audit: audit, mailer: mail, orgID: org.ID, superID: super.UserID}
}

func (f *directoryFixture) invite(t *testing.T, email, role string) dto.InviteResponse {
	t.Helper()

	resp, err := f.svc.Invite(context.Background(), dto.InviteRequest{
		Email:           email,
		Role:            role,
		OrganizationID:  f.orgID,
		InvitedByUserID: f.superID,
	})
	require.NoError(t, err)
	return resp
}

func (f *directoryFixture) admin(t *testing.T, email string) models.AdminUser {
	t.Helper()

	var account models.AdminUser
	require.NoError(t, f.db.Where("email = ? AND organization_id = ?", email, f.orgID).First(&account).Error)
	return account
}

func TestInviteCreatesInvitedAccount(t *testing.T) {
	f := newDirectoryFixture(t)

	resp := f.invite(t, "New.Admin@dps-blr.edu.in", "admin")

	require.Equal(t, "new.admin@dps-blr.edu.in", resp.Invite.Email)
	require.Equal(t, string(rbac.RoleAdmin), resp.Invite.Role)
	require.Equal(t, string(rbac.StatusInvited), resp.Invite.Status)
	require.Contains(t, resp.AcceptURL, "https://app.transify.in/accept-invite?token=")
	require.Contains(t, resp.AcceptURL, "email=new.admin%40dps-blr.edu.in")
	require.Empty(t, resp.EmailError)

	account := f.admin(t, "new.admin@dps-blr.edu.in")
	require.Equal(t, rbac.StatusInvited, account.Status)
	require.NotNil(t, account.InviteToken)
	require.NotNil(t, account.InviteExpiresAt)
	require.Equal(t, "new.admin", account.Name)
	require.Equal(t, f.superID, account.InvitedBy)

	require.Len(t, f.mailer.invites, 1)
	require.Equal(t, "Delhi Public School", f.mailer.invites[0].OrganizationName)
	require.Equal(t, "Ravi Shankar", f.mailer.invites[0].InviterName)
}

func TestInviteRejectsActiveAdmin(t *testing.T) {
	f := newDirectoryFixture(t)

	resp := f.invite(t, "driver.lead@dps-blr.edu.in", "admin")
	_, err := f.svc.AcceptInvite(context.Background(), dto.AcceptInviteRequest{
		Token: tokenFromURL(t, resp.AcceptURL),
		Email: "driver.lead@dps-blr.edu.in",
	})
	require.NoError(t, err)

	_, err = f.svc.Invite(context.Background(), dto.InviteRequest{
		Email:           "driver.lead@dps-blr.edu.in",
		Role:            "admin",
		OrganizationID:  f.orgID,
		InvitedByUserID: f.superID,
	})
	require.ErrorIs(t, err, ErrAlreadyActive)
}

func TestInviteRequiresSuperAdmin(t *testing.T) {
	f := newDirectoryFixture(t)

	regular := models.AdminUser{
		UserID:         uuid.NewString(),
		Email:          "plain@dps-blr.edu.in",
		Name:           "Plain Admin",
		OrganizationID: f.orgID,
		Role:           rbac.RoleAdmin,
		Status:         rbac.StatusActive,
	}
	require.NoError(t, f.db.Create(&regular).Error)

	_, err := f.svc.Invite(context.Background(), dto.InviteRequest{
		Email:           "someone@dps-blr.edu.in",
		Role:            "admin",
		OrganizationID:  f.orgID,
		InvitedByUserID: regular.UserID,
	})
	require.ErrorIs(t, err, ErrNotSuperAdmin)

	_, err = f.svc.Invite(context.Background(), dto.InviteRequest{
		Email:           "someone@dps-blr.edu.in",
		Role:            "admin",
		OrganizationID:  f.orgID,
		InvitedByUserID: uuid.NewString(),
	})
	require.ErrorIs(t, err, ErrNotSuperAdmin)
}

func TestInviteRejectsUnknownRole(t *testing.T) {
	f := newDirectoryFixture(t)

	_, err := f.svc.Invite(context.Background(), dto.InviteRequest{
		Email:           "someone@dps-blr.edu.in",
		Role:            "owner",
		OrganizationID:  f.orgID,
		InvitedByUserID: f.superID,
	})
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestInviteEmailFailureKeepsInvite(t *testing.T) {
	f := newDirectoryFixture(t)
	f.mailer.fail = true

	resp := f.invite(t, "unlucky@dps-blr.edu.in", "admin")

	require.NotEmpty(t, resp.EmailError)
	require.NotEmpty(t, resp.AcceptURL)

	account := f.admin(t, "unlucky@dps-blr.edu.in")
	require.Equal(t, rbac.StatusInvited, account.Status)
	require.NotNil(t, account.InviteToken)
}

func TestReInviteAfterRemovalIssuesFreshInvite(t *testing.T) {
	f := newDirectoryFixture(t)

	resp := f.invite(t, "cycle@dps-blr.edu.in", "admin")
	_, err := f.svc.AcceptInvite(context.Background(), dto.AcceptInviteRequest{
		Token: tokenFromURL(t, resp.AcceptURL),
		Email: "cycle@dps-blr.edu.in",
	})
	require.NoError(t, err)

	account := f.admin(t, "cycle@dps-blr.edu.in")
	require.NoError(t, f.svc.Remove(context.Background(), dto.RemoveRequest{
		UserID:          account.UserID,
		RemovedByUserID: f.superID,
		OrganizationID:  f.orgID,
	}))

	account = f.admin(t, "cycle@dps-blr.edu.in")
	require.Equal(t, rbac.StatusDisabled, account.Status)
	require.NotNil(t, account.DisabledAt)
	require.Equal(t, f.superID, account.DisabledBy)

	f.invite(t, "cycle@dps-blr.edu.in", "super_admin")

	account = f.admin(t, "cycle@dps-blr.edu.in")
	require.Equal(t, rbac.StatusInvited, account.Status)
	require.Equal(t, rbac.RoleSuperAdmin, account.Role)
	require.NotNil(t, account.InviteToken)
	require.Nil(t, account.DisabledAt)
	require.Empty(t, account.DisabledBy)

	// Still one row for the pair, not a second account.
	var count int64
	require.NoError(t, f.db.Model(&models.AdminUser{}).
		Where("email = ? AND organization_id = ?", "cycle@dps-blr.edu.in", f.orgID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAcceptInviteActivatesAccount(t *testing.T) {
	f := newDirectoryFixture(t)

	resp := f.invite(t, "fresh@dps-blr.edu.in", "admin")
	accepted, err := f.svc.AcceptInvite(context.Background(), dto.AcceptInviteRequest{
		Token: tokenFromURL(t, resp.AcceptURL),
		Email: "fresh@dps-blr.edu.in",
	})
	require.NoError(t, err)
	require.Equal(t, f.orgID, accepted.OrganizationID)
	require.False(t, accepted.AlreadyActive)

	account := f.admin(t, "fresh@dps-blr.edu.in")
	require.Equal(t, rbac.StatusActive, account.Status)
	require.Nil(t, account.InviteToken)
	require.Nil(t, account.InviteExpiresAt)
	require.NotNil(t, account.ActivatedAt)
	require.NotNil(t, account.LastActive)
}

func TestAcceptInviteIsIdempotent(t *testing.T) {
	f := newDirectoryFixture(t)

	resp := f.invite(t, "twice@dps-blr.edu.in", "admin")
	req := dto.AcceptInviteRequest{
		Token: tokenFromURL(t, resp.AcceptURL),
		Email: "twice@dps-blr.edu.in",
	}

	first, err := f.svc.AcceptInvite(context.Background(), req)
	require.NoError(t, err)
	require.False(t, first.AlreadyActive)

	second, err := f.svc.AcceptInvite(context.Background(), req)
	require.NoError(t, err)
	require.True(t, second.AlreadyActive)
	require.Equal(t, f.orgID, second.OrganizationID)
}

func TestAcceptInviteUnknownToken(t *testing.T) {
	f := newDirectoryFixture(t)
	f.invite(t, "pending@dps-blr.edu.in", "admin")

	_, err := f.svc.AcceptInvite(context.Background(), dto.AcceptInviteRequest{
		Token: uuid.NewString(),
		Email: "pending@dps-blr.edu.in",
	})
	require.ErrorIs(t, err, ErrInviteNotFound)
}

func TestAcceptInviteExpiryBoundary(t *testing.T) {
	f := newDirectoryFixture(t)

	resp := f.invite(t, "early@dps-blr.edu.in", "admin")
	soon := time.Now().Add(2 * time.Second)
	require.NoError(t, f.db.Model(&models.AdminUser{}).
		Where("email = ?", "early@dps-blr.edu.in").
		Update("invite_expires_at", soon).Error)

	_, err := f.svc.AcceptInvite(context.Background(), dto.AcceptInviteRequest{
		Token: tokenFromURL(t, resp.AcceptURL),
		Email: "early@dps-blr.edu.in",
	})
	require.NoError(t, err)

	resp = f.invite(t, "late@dps-blr.edu.in", "admin")
	past := time.Now().Add(-time.Second)
	require.NoError(t, f.db.Model(&models.AdminUser{}).
		Where("email = ?", "late@dps-blr.edu.in").
		Update("invite_expires_at", past).Error)

	_, err = f.svc.AcceptInvite(context.Background(), dto.AcceptInviteRequest{
		Token: tokenFromURL(t, resp.AcceptURL),
		Email: "late@dps-blr.edu.in",
	})
	require.ErrorIs(t, err, ErrInviteExpired)

	account := f.admin(t, "late@dps-blr.edu.in")
	require.Equal(t, rbac.StatusInvited, account.Status)
}

func TestChangeRolePromotesAndAudits(t *testing.T) {
	f := newDirectoryFixture(t)

	resp := f.invite(t, "promote@dps-blr.edu.in", "admin")
	_, err := f.svc.AcceptInvite(context.Background(), dto.AcceptInviteRequest{
		Token: tokenFromURL(t, resp.AcceptURL),
		Email: "promote@dps-blr.edu.in",
	})
	require.NoError(t, err)

	account := f.admin(t, "promote@dps-blr.edu.in")
	require.NoError(t, f.svc.ChangeRole(context.Background(), dto.ChangeRoleRequest{
		UserID:          account.UserID,
		NewRole:         "super_admin",
		ChangedByUserID: f.superID,
		OrganizationID:  f.orgID,
	}))

	account = f.admin(t, "promote@dps-blr.edu.in")
	require.Equal(t, rbac.RoleSuperAdmin, account.Role)

	entries, err := f.audit.Query(context.Background(), f.orgID, 10)
	require.NoError(t, err)
	require.Equal(t, string(models.AuditAdminRoleChanged), entries[0].ActionType)
	require.Equal(t, account.UserID, entries[0].TargetUserID)
}

func TestChangeRoleRejectsSelf(t *testing.T) {
	f := newDirectoryFixture(t)

	err := f.svc.ChangeRole(context.Background(), dto.ChangeRoleRequest{
		UserID:          f.superID,
		NewRole:         "admin",
		ChangedByUserID: f.superID,
		OrganizationID:  f.orgID,
	})
	require.ErrorIs(t, err, ErrSelfAction)
}

func TestRemoveRejectsSelf(t *testing.T) {
	f := newDirectoryFixture(t)

	err := f.svc.Remove(context.Background(), dto.RemoveRequest{
		UserID:          f.superID,
		RemovedByUserID: f.superID,
		OrganizationID:  f.orgID,
	})
	require.ErrorIs(t, err, ErrSelfAction)
}

func TestRemoveRejectsSuperAdmin(t *testing.T) {
	f := newDirectoryFixture(t)

	other := models.AdminUser{
		UserID:         uuid.NewString(),
		Email:          "second.root@dps-blr.edu.in",
		Name:           "Second Root",
		OrganizationID: f.orgID,
		Role:           rbac.RoleSuperAdmin,
		Status:         rbac.StatusActive,
	}
	require.NoError(t, f.db.Create(&other).Error)

	err := f.svc.Remove(context.Background(), dto.RemoveRequest{
		UserID:          other.UserID,
		RemovedByUserID: f.superID,
		OrganizationID:  f.orgID,
	})
	require.ErrorIs(t, err, ErrRemoveSuperAdmin)

	// Demote first, then removal goes through.
	require.NoError(t, f.svc.ChangeRole(context.Background(), dto.ChangeRoleRequest{
		UserID:          other.UserID,
		NewRole:         "admin",
		ChangedByUserID: f.superID,
		OrganizationID:  f.orgID,
	}))
	require.NoError(t, f.svc.Remove(context.Background(), dto.RemoveRequest{
		UserID:          other.UserID,
		RemovedByUserID: f.superID,
		OrganizationID:  f.orgID,
	}))
}

func TestListReturnsNewestFirst(t *testing.T) {
	f := newDirectoryFixture(t)

	base := time.Now().Add(-time.Hour)
	for i, email := range []string{"a@dps-blr.edu.in", "b@dps-blr.edu.in", "c@dps-blr.edu.in"} {
		account := models.AdminUser{
			UserID:         uuid.NewString(),
			Email:          email,
			Name:           email,
			OrganizationID: f.orgID,
			Role:           rbac.RoleAdmin,
			Status:         rbac.StatusActive,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, f.db.Create(&account).Error)
	}

	admins, err := f.svc.List(context.Background(), f.orgID)
	require.NoError(t, err)
	require.Len(t, admins, 4) // the fixture super admin plus three

	for i := 1; i < len(admins); i++ {
		require.False(t, admins[i-1].CreatedAt.Before(admins[i].CreatedAt))
	}
}

func TestUpdateDisplayNameSanitizes(t *testing.T) {
	f := newDirectoryFixture(t)

	resp := f.invite(t, "rename@dps-blr.edu.in", "admin")
	_, err := f.svc.AcceptInvite(context.Background(), dto.AcceptInviteRequest{
		Token: tokenFromURL(t, resp.AcceptURL),
		Email: "rename@dps-blr.edu.in",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateDisplayName(context.Background(), dto.UpdateNameRequest{
		Email: "rename@dps-blr.edu.in",
		Name:  "  <script>alert(1)</script>Anita Desai ",
	}))

	account := f.admin(t, "rename@dps-blr.edu.in")
	require.Equal(t, "Anita Desai", account.Name)
	require.False(t, account.HasDefaultName())
}

func TestUpdateDisplayNameRejectsMarkupOnlyName(t *testing.T) {
	f := newDirectoryFixture(t)

	resp := f.invite(t, "markup@dps-blr.edu.in", "admin")
	_, err := f.svc.AcceptInvite(context.Background(), dto.AcceptInviteRequest{
		Token: tokenFromURL(t, resp.AcceptURL),
		Email: "markup@dps-blr.edu.in",
	})
	require.NoError(t, err)

	err = f.svc.UpdateDisplayName(context.Background(), dto.UpdateNameRequest{
		Email: "markup@dps-blr.edu.in",
		Name:  "<b></b>",
	})
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestUpdateDisplayNameRequiresActiveAccount(t *testing.T) {
	f := newDirectoryFixture(t)
	f.invite(t, "still.invited@dps-blr.edu.in", "admin")

	err := f.svc.UpdateDisplayName(context.Background(), dto.UpdateNameRequest{
		Email: "still.invited@dps-blr.edu.in",
		Name:  "Too Soon",
	})
	require.ErrorIs(t, err, ErrAdminNotFound)
}

// tokenFromURL pulls the invite token out of an accept link.
func tokenFromURL(t *testing.T, acceptURL string) string {
	t.Helper()

	u, err := url.Parse(acceptURL)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}
