package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-facility-api/internal/model"
	"go-facility-api/internal/repository"
)

func seedUser(t *testing.T, db *gorm.DB, email, password string, site *model.Site) *model.User {
	t.Helper()

	role := &model.Role{Code: model.RoleSiteManager, Name: "Site Manager"}
	require.NoError(t, db.FirstOrCreate(role, model.Role{Code: model.RoleSiteManager}).Error)

	user := &model.User{
		Email:    email,
		FullName: "Test User",
		RoleID:   &role.ID,
		IsActive: true,
	}
	if site != nil {
		user.CurrentSiteID = &site.ID
	}
	require.NoError(t, user.SetPassword(password))
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestLoginIssuesSiteScopedToken(t *testing.T) {
	db := newTestDB(t)
	site := seedSite(t, db, "LYON", false)
	seedUser(t, db, "manager@example.com", "secret123", site)

	svc := NewAuthService(repository.NewUserRepo(db), nil)

	resp, err := svc.Login("manager@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.Site)
	assert.Equal(t, site.ID, resp.Site.ID)

	// The token survives validation right after login.
	validated, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "manager@example.com", validated.User.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	site := seedSite(t, db, "LYON", false)
	user := seedUser(t, db, "manager@example.com", "secret123", site)

	svc := NewAuthService(repository.NewUserRepo(db), nil)

	_, err := svc.Login("manager@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	_, err = svc.Login("manager@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestLoginInvalidatesPreviousSession(t *testing.T) {
	db := newTestDB(t)
	site := seedSite(t, db, "LYON", false)
	seedUser(t, db, "manager@example.com", "secret123", site)

	svc := NewAuthService(repository.NewUserRepo(db), nil)

	first, err := svc.Login("manager@example.com", "secret123")
	require.NoError(t, err)
	second, err := svc.Login("manager@example.com", "secret123")
	require.NoError(t, err)

	// Only the most recent session's token validates.
	_, err = svc.ValidateToken(first.Token)
	assert.Error(t, err)
	_, err = svc.ValidateToken(second.Token)
	assert.NoError(t, err)
}

func TestValidateTokenInactivityTimeout(t *testing.T) {
	db := newTestDB(t)
	site := seedSite(t, db, "LYON", false)
	user := seedUser(t, db, "manager@example.com", "secret123", site)

	svc := NewAuthService(repository.NewUserRepo(db), nil)

	resp, err := svc.Login("manager@example.com", "secret123")
	require.NoError(t, err)

	stale := time.Now().Add(-10 * time.Minute)
	require.NoError(t, db.Model(user).Update("last_seen_at", stale).Error)

	_, err = svc.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrSessionTimeout)
}

func TestResetPassword(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "manager@example.com", "secret123", nil)

	svc := NewAuthService(repository.NewUserRepo(db), nil)

	err := svc.ResetPassword("manager@example.com", "nope", "newpassword1")
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, svc.ResetPassword("manager@example.com", "secret123", "newpassword1"))

	_, err = svc.Login("manager@example.com", "newpassword1")
	assert.NoError(t, err)
}
