package db

import (
	"log"

	"github.com/pkg/errors"
	"github.com/talkpointng/talkpoint/models"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	IsEmailExist(email string) error
	IsUsernameExist(username string) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	UpdateUser(user *models.User) error
	EditUserProfile(userID uint, details *models.EditProfileRequest) error
	UpdatePassword(userID uint, hashedPassword string) error
	UpsertUserImage(userID uint, avatarURL string, thumbNailURL string) error
	GetVisibleUsers(excludedUserID uint) ([]models.User, error)
	AddToBlackList(blacklist *models.Blacklist) error
	IsTokenInBlacklist(token string) bool
	SetUserOnline(userID uint, online bool) error
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := a.DB.Create(user).Error; err != nil {
		log.Printf("CreateUser error: %v", err)
		return nil, err
	}
	return user, nil
}

func (a *authRepo) IsEmailExist(email string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return errors.New("email already in use")
	}
	return nil
}

func (a *authRepo) IsUsernameExist(username string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return errors.New("username already in use")
	}
	return nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := a.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := a.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) UpdateUser(user *models.User) error {
	return a.DB.Save(user).Error
}

func (a *authRepo) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	updates := map[string]interface{}{}
	if details.Fullname != "" {
		updates["fullname"] = details.Fullname
	}
	if details.Username != "" {
		updates["username"] = details.Username
	}
	if details.Telephone != "" {
		updates["telephone"] = details.Telephone
	}
	if details.Bio != "" {
		updates["bio"] = details.Bio
	}
	if details.DateOfBirth != nil {
		updates["date_of_birth"] = details.DateOfBirth
	}
	if details.IsProfilePrivate != nil {
		updates["is_profile_private"] = *details.IsProfilePrivate
	}
	if len(updates) == 0 {
		return nil
	}

	result := a.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return errors.Wrap(result.Error, "could not update user profile")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *authRepo) UpdatePassword(userID uint, hashedPassword string) error {
	result := a.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("hashed_password", hashedPassword)
	if result.Error != nil {
		return errors.Wrap(result.Error, "could not update password")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *authRepo) UpsertUserImage(userID uint, avatarURL string, thumbNailURL string) error {
	return a.DB.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"avatar_url":     avatarURL,
			"thumb_nail_url": thumbNailURL,
		}).Error
}

// GetVisibleUsers returns every user except the caller and users who marked
// their profile private.
func (a *authRepo) GetVisibleUsers(excludedUserID uint) ([]models.User, error) {
	var users []models.User
	err := a.DB.Where("is_profile_private = ?", false).
		Where("id <> ?", excludedUserID).
		Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list users")
	}
	return users, nil
}

func (a *authRepo) AddToBlackList(blacklist *models.Blacklist) error {
	return a.DB.Create(blacklist).Error
}

func (a *authRepo) IsTokenInBlacklist(token string) bool {
	var count int64
	if err := a.DB.Model(&models.Blacklist{}).Where("token = ?", token).Count(&count).Error; err != nil {
		log.Printf("IsTokenInBlacklist error: %v", err)
		return false
	}
	return count > 0
}

func (a *authRepo) SetUserOnline(userID uint, online bool) error {
	return a.DB.Model(&models.User{}).Where("id = ?", userID).Update("online", online).Error
}
