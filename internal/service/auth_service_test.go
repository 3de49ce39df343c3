package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NatanaelSou/TCC-Project/config"
	"github.com/NatanaelSou/TCC-Project/internal/model/dto"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/jwt"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
	"github.com/NatanaelSou/TCC-Project/internal/testutil"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			ExpireHours: 24,
		},
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := NewAuthService(repository.NewUserRepository(db), nil, testAuthConfig())

	resp, err := service.Register(&dto.RegisterRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.UserID)
	assert.NotEmpty(t, resp.Token)

	// The issued token carries the user ID
	claims, err := jwt.ParseToken(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, claims.UserID)

	login, err := service.Login(&dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana", login.User.Username)
	assert.NotEmpty(t, login.Token)
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := NewAuthService(repository.NewUserRepository(db), nil, testAuthConfig())

	_, err := service.Register(&dto.RegisterRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = service.Register(&dto.RegisterRequest{
		Username: "other",
		Email:    "ana@example.com",
		Password: "supersecret",
	})
	assert.Equal(t, ErrEmailExists, err)

	_, err = service.Register(&dto.RegisterRequest{
		Username: "ana",
		Email:    "other@example.com",
		Password: "supersecret",
	})
	assert.Equal(t, ErrUsernameExists, err)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := NewAuthService(repository.NewUserRepository(db), nil, testAuthConfig())

	_, err := service.Register(&dto.RegisterRequest{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = service.Login(&dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong",
	})
	assert.Equal(t, ErrInvalidCredentials, err)

	_, err = service.Login(&dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "supersecret",
	})
	assert.Equal(t, ErrInvalidCredentials, err)
}
