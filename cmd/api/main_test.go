package main

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/healthcare-portal/internal/models"
	"github.com/harentsoaR/healthcare-portal/internal/pagination"
	"github.com/harentsoaR/healthcare-portal/internal/services"
	"github.com/harentsoaR/healthcare-portal/internal/store/memstore"
	"github.com/harentsoaR/healthcare-portal/internal/utils"
)

func testServices() *services.Services {
	return services.New(services.Deps{
		Store:  memstore.New(),
		Tokens: utils.NewTokenManager("seed-secret", time.Hour),
		Hasher: utils.NewPasswordHasher(bcrypt.MinCost),
		Log:    zerolog.Nop(),
	})
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	assert.NotNil(t, root.RunE)

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())

	seed, _, err := root.Find([]string{"seed"})
	require.NoError(t, err)
	assert.NotNil(t, seed.Flags().Lookup("admin-email"))
	assert.NotNil(t, seed.Flags().Lookup("admin-password"))
}

func TestSeedAccounts(t *testing.T) {
	ctx := context.Background()
	svc := testServices()

	created, err := seedAccounts(ctx, svc.Auth, demoAccounts("admin@healthcare.com", "password123"))
	require.NoError(t, err)
	assert.Equal(t, []string{"admin@healthcare.com", "doctor@healthcare.com", "patient@healthcare.com"}, created)

	for email, role := range map[string]models.Role{
		"admin@healthcare.com":   models.RoleAdmin,
		"doctor@healthcare.com":  models.RoleDoctor,
		"patient@healthcare.com": models.RolePatient,
	} {
		sess, err := svc.Auth.Login(ctx, services.LoginInput{Email: email, Password: "password123"})
		require.NoError(t, err, email)
		assert.Equal(t, role, sess.User.Role)
		assert.True(t, sess.User.IsActive, email)
		assert.True(t, sess.User.IsApproved, email)
	}

	doctors, total, err := svc.Users.Doctors(ctx, services.UserQuery{}, pagination.Default())
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.NotEmpty(t, doctors[0].Specialization)
	assert.NotEmpty(t, doctors[0].LicenseNumber)

	// a second run leaves existing accounts alone
	created, err = seedAccounts(ctx, svc.Auth, demoAccounts("admin@healthcare.com", "other-pass"))
	require.NoError(t, err)
	assert.Empty(t, created)
	_, err = svc.Auth.Login(ctx, services.LoginInput{Email: "admin@healthcare.com", Password: "password123"})
	assert.NoError(t, err)
}

func TestSeedAccounts_AdminOverride(t *testing.T) {
	ctx := context.Background()
	svc := testServices()

	created, err := seedAccounts(ctx, svc.Auth, demoAccounts(" Root@Clinic.test ", "s3cret-pass"))
	require.NoError(t, err)
	assert.Contains(t, created, "root@clinic.test")

	sess, err := svc.Auth.Login(ctx, services.LoginInput{Email: "root@clinic.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, sess.User.Role)
}
