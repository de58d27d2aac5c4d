package services

import (
	"errors"
	"log"
	"net/http"

	"github.com/talkpointng/talkpoint/config"
	"github.com/talkpointng/talkpoint/db"
	apiError "github.com/talkpointng/talkpoint/errors"
	"github.com/talkpointng/talkpoint/models"
	"github.com/talkpointng/talkpoint/services/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService interface
type AuthService interface {
	SignupUser(user *models.User) (*models.User, error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	GetUserProfile(userID uint) (*models.User, error)
	EditUserProfile(userID uint, details *models.EditProfileRequest) error
	ChangePassword(userID uint, request *models.ChangePassword) *apiError.Error
	ResetPassword(userID uint, newPassword string) *apiError.Error
	GetVisibleUsers(userID uint) ([]models.UserResponse, error)
}

type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
}

// NewAuthService instantiates an authService
func NewAuthService(authRepo db.AuthRepository, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
	}
}

func (s *authService) SignupUser(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if user.Email == "" {
		return nil, errors.New("email is empty")
	}

	if err := s.authRepo.IsEmailExist(user.Email); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.New("user with this email already exists", http.StatusConflict)
	}
	if err := s.authRepo.IsUsernameExist(user.Username); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.New("user with this username already exists", http.StatusConflict)
	}

	if err := models.ValidatePassword(user.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("SignupUser error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.HashedPassword = string(hashedPassword)
	user.Password = ""

	created, err := s.authRepo.CreateUser(user)
	if err != nil {
		log.Printf("SignupUser error creating user: %v", err)
		return nil, apiError.GetUniqueConstraintError(err)
	}
	return created, nil
}

func GenerateHashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashedPassword), err
}

// LoginUser checks credentials and returns the user plus a token pair.
func (a *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	foundUser, err := a.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("invalid email or password", http.StatusUnprocessableEntity)
		}
		log.Printf("Error finding user by email: %v", err)
		return nil, apiError.New("unable to find user", http.StatusInternalServerError)
	}

	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		log.Printf("Invalid password for user %s", foundUser.Email)
		return nil, apiError.ErrInvalidPassword
	}

	accessToken, refreshToken, err := jwt.GenerateTokenPair(foundUser.Email, a.Config.JWTSecret, foundUser.ID)
	if err != nil {
		log.Printf("Error generating token pair for user %s: %v", foundUser.Email, err)
		return nil, apiError.ErrInternalServerError
	}

	if err := a.authRepo.SetUserOnline(foundUser.ID, true); err != nil {
		log.Printf("Error setting user %d online: %v", foundUser.ID, err)
	}

	return &models.LoginResponse{
		UserResponse: models.NewUserResponse(foundUser),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (a *authService) GetUserProfile(userID uint) (*models.User, error) {
	user, err := a.authRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrUserNotFound
		}
		log.Printf("GetUserProfile error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return user, nil
}

func (a *authService) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	if details.Username != "" {
		existing, err := a.authRepo.FindUserByID(userID)
		if err != nil {
			return apiError.ErrInternalServerError
		}
		if existing.Username != details.Username {
			if err := a.authRepo.IsUsernameExist(details.Username); err != nil {
				return apiError.New("user with this username already exists", http.StatusConflict)
			}
		}
	}

	if err := a.authRepo.EditUserProfile(userID, details); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.ErrUserNotFound
		}
		log.Printf("EditUserProfile error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

// ChangePassword verifies the old password before setting the new one.
func (a *authService) ChangePassword(userID uint, request *models.ChangePassword) *apiError.Error {
	if request.NewPassword != request.NewPasswordConfirm {
		return apiError.New("password fields didn't match", http.StatusBadRequest)
	}
	if err := models.ValidatePassword(request.NewPassword); err != nil {
		return apiError.New(err.Error(), http.StatusBadRequest)
	}

	user, err := a.authRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.ErrUserNotFound
		}
		log.Printf("ChangePassword error: %v", err)
		return apiError.ErrInternalServerError
	}

	if err := user.VerifyPassword(request.OldPassword); err != nil {
		return apiError.New("wrong password", http.StatusBadRequest)
	}

	hashedPassword, err := GenerateHashPassword(request.NewPassword)
	if err != nil {
		log.Printf("ChangePassword hash error: %v", err)
		return apiError.ErrInternalServerError
	}
	if err := a.authRepo.UpdatePassword(userID, hashedPassword); err != nil {
		log.Printf("ChangePassword update error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

// ResetPassword sets a new password for a user identified by a valid reset
// token; the transport validates the token and passes the user id.
func (a *authService) ResetPassword(userID uint, newPassword string) *apiError.Error {
	if err := models.ValidatePassword(newPassword); err != nil {
		return apiError.New(err.Error(), http.StatusBadRequest)
	}
	hashedPassword, err := GenerateHashPassword(newPassword)
	if err != nil {
		log.Printf("ResetPassword hash error: %v", err)
		return apiError.ErrInternalServerError
	}
	if err := a.authRepo.UpdatePassword(userID, hashedPassword); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.ErrUserNotFound
		}
		log.Printf("ResetPassword update error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

// GetVisibleUsers lists everyone a user may start a conversation with:
// all users except private profiles and the caller.
func (a *authService) GetVisibleUsers(userID uint) ([]models.UserResponse, error) {
	users, err := a.authRepo.GetVisibleUsers(userID)
	if err != nil {
		log.Printf("GetVisibleUsers error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, models.NewUserResponse(&users[i]))
	}
	return responses, nil
}
