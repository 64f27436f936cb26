package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/repositories"
	"salon_crm_backend/pkg/utils"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	accounts, err := repositories.NewStaticAccountRepository([]repositories.AccountSeed{
		{Email: "Admin@Salon.test", Password: "admin-pass", Name: "Super Admin", Role: models.RoleSuperAdmin},
		{Email: "front@salon.test", Password: "front-pass", Name: "Receptionist", Role: models.RoleReceptionist},
		{Email: "disabled@salon.test", Password: "", Name: "Nobody", Role: models.RoleReceptionist},
	}, bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := utils.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	return NewAuthService(accounts, tokens)
}

func TestAuthService_Login(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, models.Credentials{Email: "admin@salon.test", Password: "admin-pass"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	user, err := svc.Authenticate(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "Admin@Salon.test", user.Email)
	assert.Equal(t, models.RoleSuperAdmin, user.Role)
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	cases := []models.Credentials{
		{Email: "admin@salon.test", Password: "wrong"},
		{Email: "ghost@salon.test", Password: "admin-pass"},
		{Email: "disabled@salon.test", Password: ""},
		{Email: "", Password: "admin-pass"},
	}
	for _, creds := range cases {
		_, err := svc.Login(ctx, creds)
		assert.ErrorIs(t, err, ErrInvalidCredentials, creds.Email)
	}
}

func TestAuthService_AuthenticateRejectsGarbage(t *testing.T) {
	_, err := newAuthService(t).Authenticate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
