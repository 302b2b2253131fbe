package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/swarnika/swarnika-backend/config"
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	"github.com/swarnika/swarnika-backend/internal/db"
	"github.com/swarnika/swarnika-backend/pkg/util"
)

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB := db.SetupTestDB(t)
	t.Cleanup(func() {
		db.CleanupTestDB(t, testDB)
	})

	jwtCfg := config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
	return NewAuthService(repository.NewUserRepository(testDB), jwtCfg), testDB
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	user, pair, err := svc.Register(RegisterInput{
		Name: "Asha", Email: "Asha@Example.com", Phone: "9876543210",
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)

	t.Run("duplicate email", func(t *testing.T) {
		_, _, err := svc.Register(RegisterInput{
			Name: "Imposter", Email: "asha@example.com", Phone: "9000000001",
			Password: "whatever123",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("login", func(t *testing.T) {
		got, pair, err := svc.Login("asha@example.com", "s3cret-password")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login("asha@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login("nobody@example.com", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_RegisterClaimsGuestAccount(t *testing.T) {
	svc, testDB := setupAuthServiceTest(t)

	// Guests are materialized at checkout with no password.
	guest := &model.User{
		Name: "Asha", Email: "asha@example.com", Phone: "9876543210",
		Role: model.RoleUser,
	}
	require.NoError(t, testDB.Create(guest).Error)

	user, _, err := svc.Register(RegisterInput{
		Name: "Asha Verma", Email: "asha@example.com", Phone: "9876543210",
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	assert.Equal(t, guest.ID, user.ID)
	assert.False(t, user.IsGuest())

	var users int64
	testDB.Model(&model.User{}).Count(&users)
	assert.EqualValues(t, 1, users)
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	_, pair, err := svc.Register(RegisterInput{
		Name: "Asha", Email: "asha@example.com", Phone: "9876543210",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	fresh, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	_, err = svc.Refresh("garbage")
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	user, _, err := svc.Register(RegisterInput{
		Name: "Asha", Email: "asha@example.com", Phone: "9876543210",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	name := "Asha V"
	city := "Pune"
	updated, err := svc.UpdateProfile(user.ID, ProfileUpdate{Name: &name, City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Asha V", updated.Name)
	assert.Equal(t, "Pune", updated.City)

	_, err = svc.UpdateProfile(99999, ProfileUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
