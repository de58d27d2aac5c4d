package models

import (
	"errors"
	"fmt"
	"time"

	goval "github.com/go-passwd/validator"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User represents a registered user of the application. Profile fields live
// on the record itself rather than in a separate table.
type User struct {
	Model
	Fullname         string     `json:"fullname" binding:"required,min=2" conform:"trim"`
	Username         string     `json:"username" gorm:"unique" binding:"required,min=2" conform:"trim"`
	Email            string     `json:"email" gorm:"unique;not null" binding:"required,email" conform:"trim,email"`
	Telephone        string     `json:"telephone" gorm:"default:null"`
	Password         string     `json:"password,omitempty" gorm:"-" validate:"omitempty,min=6"`
	HashedPassword   string     `json:"-"`
	Bio              string     `json:"bio"`
	DateOfBirth      *time.Time `json:"date_of_birth" gorm:"default:null"`
	IsProfilePrivate bool       `json:"is_profile_private" gorm:"default:false"`
	ThumbNailURL     string     `json:"thumbnail_url,omitempty"`
	AvatarURL        string     `json:"avatar_url,omitempty"`
	Online           bool       `json:"online" gorm:"default:false"`
}

// VerifyPassword compares the given plain password with the stored hash.
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}

// ValidatePassword enforces the password policy at signup and on change.
func ValidatePassword(password string) error {
	passwordValidator := goval.New(
		goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(64, errors.New("password cant be more than 64 characters")),
	)
	return passwordValidator.Validate(password)
}

// ValidateWhiteSpaces trims string fields tagged with conform.
func ValidateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}

func TranslateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, fmt.Errorf(e.Translate(trans)+"; "))
	}
	return errs
}

type UserResponse struct {
	ID           uint   `json:"id"`
	Fullname     string `json:"fullname"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Telephone    string `json:"telephone"`
	Bio          string `json:"bio"`
	ThumbNailURL string `json:"thumbnail_url,omitempty"`
	Online       bool   `json:"online"`
}

// NewUserResponse strips credentials and privacy-internal fields off a user
// record for transport.
func NewUserResponse(user *User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Fullname:     user.Fullname,
		Username:     user.Username,
		Email:        user.Email,
		Telephone:    user.Telephone,
		Bio:          user.Bio,
		ThumbNailURL: user.ThumbNailURL,
		Online:       user.Online,
	}
}

type EditProfileRequest struct {
	Fullname         string     `json:"fullname" conform:"trim"`
	Username         string     `json:"username" conform:"trim"`
	Telephone        string     `json:"telephone" conform:"trim"`
	Bio              string     `json:"bio" conform:"trim"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	IsProfilePrivate *bool      `json:"is_profile_private"`
}
