package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apiError "github.com/talkpointng/talkpoint/errors"
	"github.com/talkpointng/talkpoint/models"
	"gorm.io/gorm"
)

func TestAuthService_SignupUser(t *testing.T) {
	t.Run("hashes the password and clears the plain text", func(t *testing.T) {
		req := require.New(t)
		authRepo := new(mockAuthRepo)
		svc := NewAuthService(authRepo, testConfig())

		authRepo.On("IsEmailExist", "ada@example.com").Return(nil).Once()
		authRepo.On("IsUsernameExist", "ada").Return(nil).Once()
		authRepo.On("CreateUser", mock.AnythingOfType("*models.User")).
			Return(&models.User{Model: models.Model{ID: 1}, Email: "ada@example.com", Username: "ada"}, nil).Once()

		user := &models.User{
			Fullname: "Ada Lovelace",
			Username: "ada",
			Email:    "ada@example.com",
			Password: "securepass",
		}
		created, err := svc.SignupUser(user)

		req.NoError(err)
		req.Empty(user.Password)
		req.NotEmpty(user.HashedPassword)
		req.NoError(user.VerifyPassword("securepass"))
		req.Equal(uint(1), created.ID)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		req := require.New(t)
		authRepo := new(mockAuthRepo)
		svc := NewAuthService(authRepo, testConfig())

		authRepo.On("IsEmailExist", "taken@example.com").Return(gorm.ErrDuplicatedKey).Once()

		_, err := svc.SignupUser(&models.User{Username: "x", Email: "taken@example.com", Password: "securepass"})

		req.Error(err)
		apiErr := apiError.FromError(err)
		req.Equal(http.StatusConflict, apiErr.Status)
		authRepo.AssertNotCalled(t, "CreateUser", mock.Anything)
	})

	t.Run("rejects a password below the policy minimum", func(t *testing.T) {
		req := require.New(t)
		authRepo := new(mockAuthRepo)
		svc := NewAuthService(authRepo, testConfig())

		authRepo.On("IsEmailExist", "short@example.com").Return(nil).Once()
		authRepo.On("IsUsernameExist", "short").Return(nil).Once()

		_, err := svc.SignupUser(&models.User{Username: "short", Email: "short@example.com", Password: "abc"})

		req.Error(err)
		authRepo.AssertNotCalled(t, "CreateUser", mock.Anything)
	})
}

func TestAuthService_LoginUser(t *testing.T) {
	hashed, err := GenerateHashPassword("securepass")
	require.NoError(t, err)
	stored := &models.User{
		Model:          models.Model{ID: 1},
		Email:          "ada@example.com",
		Username:       "ada",
		HashedPassword: hashed,
	}

	t.Run("returns a token pair on valid credentials", func(t *testing.T) {
		req := require.New(t)
		authRepo := new(mockAuthRepo)
		svc := NewAuthService(authRepo, testConfig())

		authRepo.On("FindUserByEmail", "ada@example.com").Return(stored, nil).Once()
		authRepo.On("SetUserOnline", uint(1), true).Return(nil).Once()

		resp, apiErr := svc.LoginUser(&models.LoginRequest{Email: "ada@example.com", Password: "securepass"})

		req.Nil(apiErr)
		req.NotEmpty(resp.AccessToken)
		req.NotEmpty(resp.RefreshToken)
		req.Equal(uint(1), resp.ID)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		req := require.New(t)
		authRepo := new(mockAuthRepo)
		svc := NewAuthService(authRepo, testConfig())

		authRepo.On("FindUserByEmail", "ada@example.com").Return(stored, nil).Once()

		_, apiErr := svc.LoginUser(&models.LoginRequest{Email: "ada@example.com", Password: "wrong"})

		req.Equal(apiError.ErrInvalidPassword, apiErr)
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		req := require.New(t)
		authRepo := new(mockAuthRepo)
		svc := NewAuthService(authRepo, testConfig())

		authRepo.On("FindUserByEmail", "ghost@example.com").Return(nil, gorm.ErrRecordNotFound).Once()

		_, apiErr := svc.LoginUser(&models.LoginRequest{Email: "ghost@example.com", Password: "whatever"})

		req.NotNil(apiErr)
		req.Equal(http.StatusUnprocessableEntity, apiErr.Status)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	hashed, err := GenerateHashPassword("oldpass")
	require.NoError(t, err)

	t.Run("rejects mismatched confirmation", func(t *testing.T) {
		req := require.New(t)
		authRepo := new(mockAuthRepo)
		svc := NewAuthService(authRepo, testConfig())

		apiErr := svc.ChangePassword(1, &models.ChangePassword{
			OldPassword:        "oldpass",
			NewPassword:        "newpass1",
			NewPasswordConfirm: "different",
		})

		req.NotNil(apiErr)
		req.Equal(http.StatusBadRequest, apiErr.Status)
	})

	t.Run("rejects a wrong old password", func(t *testing.T) {
		req := require.New(t)
		authRepo := new(mockAuthRepo)
		svc := NewAuthService(authRepo, testConfig())

		authRepo.On("FindUserByID", uint(1)).
			Return(&models.User{Model: models.Model{ID: 1}, HashedPassword: hashed}, nil).Once()

		apiErr := svc.ChangePassword(1, &models.ChangePassword{
			OldPassword:        "wrong",
			NewPassword:        "newpass1",
			NewPasswordConfirm: "newpass1",
		})

		req.NotNil(apiErr)
		req.Equal(http.StatusBadRequest, apiErr.Status)
		authRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
	})

	t.Run("stores a new hash on success", func(t *testing.T) {
		req := require.New(t)
		authRepo := new(mockAuthRepo)
		svc := NewAuthService(authRepo, testConfig())

		authRepo.On("FindUserByID", uint(1)).
			Return(&models.User{Model: models.Model{ID: 1}, HashedPassword: hashed}, nil).Once()
		authRepo.On("UpdatePassword", uint(1), mock.AnythingOfType("string")).Return(nil).Once()

		apiErr := svc.ChangePassword(1, &models.ChangePassword{
			OldPassword:        "oldpass",
			NewPassword:        "newpass1",
			NewPasswordConfirm: "newpass1",
		})

		req.Nil(apiErr)
		authRepo.AssertExpectations(t)
	})
}

func TestAuthService_GetVisibleUsers(t *testing.T) {
	req := require.New(t)
	authRepo := new(mockAuthRepo)
	svc := NewAuthService(authRepo, testConfig())

	authRepo.On("GetVisibleUsers", uint(1)).Return([]models.User{
		{Model: models.Model{ID: 2}, Username: "grace"},
		{Model: models.Model{ID: 3}, Username: "alan"},
	}, nil).Once()

	users, err := svc.GetVisibleUsers(1)

	req.NoError(err)
	req.Len(users, 2)
	req.Equal("grace", users[0].Username)
}
