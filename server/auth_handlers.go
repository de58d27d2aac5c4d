package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	errs "github.com/talkpointng/talkpoint/errors"
	"github.com/talkpointng/talkpoint/models"
	"github.com/talkpointng/talkpoint/server/response"
	"github.com/talkpointng/talkpoint/services/jwt"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := decode(c, &user); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		if err := models.ValidateWhiteSpaces(&user); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		validate := validator.New()
		if err := validate.Struct(user); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		userResponse, err := s.AuthService.SignupUser(&user)
		if err != nil {
			response.JSON(c, "", errs.FromError(err).Status, nil, err)
			return
		}

		// Welcome mail must not block the signup flow
		if _, err := s.Mail.SendWelcomeMessage(userResponse.Email, "Welcome to TalkPoint!"); err != nil {
			log.Printf("Error sending welcome email: %v", err)
		}

		response.JSON(c, "Signup successful", http.StatusCreated, models.NewUserResponse(userResponse), nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.JSON(c, "", errs.ErrBadRequest.Status, nil, err)
			return
		}
		userResponse, err := s.AuthService.LoginUser(&loginRequest)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, userResponse, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("user not found in context", http.StatusInternalServerError))
			return
		}

		accessToken, _ := c.Get("access_token")
		tokenStr, _ := accessToken.(string)
		blacklist := &models.Blacklist{
			Email: user.Email,
			Token: tokenStr,
		}
		if err := s.AuthRepository.AddToBlackList(blacklist); err != nil {
			log.Printf("handleLogout error: %v", err)
			response.JSON(c, "logout failed", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}

		if err := s.AuthRepository.SetUserOnline(user.ID, false); err != nil {
			log.Printf("handleLogout error setting user offline: %v", err)
		}

		response.JSON(c, "logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) HandleForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var forgotPassword models.ForgotPassword
		if err := decode(c, &forgotPassword); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		user, err := s.AuthRepository.FindUserByEmail(forgotPassword.Email)
		if err != nil || user == nil {
			response.JSON(c, "", http.StatusNotFound, nil, fmt.Errorf("user not found"))
			return
		}

		resetToken, err := jwt.GeneratePasswordResetToken(user.ID, s.Config.JWTSecret)
		if err != nil {
			response.JSON(c, "failed to generate reset token", http.StatusInternalServerError, nil, err)
			return
		}

		baseURL := s.Config.BaseUrl
		if baseURL == "" {
			baseURL = "http://localhost:3000"
		}
		resetLink := fmt.Sprintf("%s/reset-password/%s", baseURL, resetToken)

		if _, err := s.Mail.SendResetPassword(user.Email, resetLink); err != nil {
			response.JSON(c, "connection to mail service interrupted", http.StatusInternalServerError, nil, err)
			return
		}

		response.JSON(c, "Reset Password Link Sent Successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) ResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var resetPassword models.ResetPassword
		if err := decode(c, &resetPassword); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		if resetPassword.Password != resetPassword.ConfirmPassword {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("password fields didn't match", http.StatusBadRequest))
			return
		}

		token := c.Param("token")
		claims, err := jwt.ValidateAndGetClaims(token, s.Config.JWTSecret)
		if err != nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("invalid or expired reset token", http.StatusUnauthorized))
			return
		}
		if claims["type"] != "password_reset" {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.New("invalid reset token", http.StatusUnauthorized))
			return
		}

		userID, convErr := claimUserID(claims["id"])
		if convErr != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, convErr)
			return
		}

		if apiErr := s.AuthService.ResetPassword(userID, resetPassword.Password); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Password Reset Successfully", http.StatusOK, nil, nil)
	}
}

// currentUser pulls the authenticated user the middleware stored on the
// context.
func currentUser(c *gin.Context) (*models.User, bool) {
	userCtx, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	user, ok := userCtx.(*models.User)
	return user, ok
}

// currentUserID pulls the authenticated user id off the context.
func currentUserID(c *gin.Context) (uint, bool) {
	userIDCtx, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	userID, ok := userIDCtx.(uint)
	return userID, ok
}

func claimUserID(v interface{}) (uint, error) {
	switch id := v.(type) {
	case float64:
		return uint(id), nil
	case string:
		parsed, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid userID format")
		}
		return uint(parsed), nil
	default:
		return 0, fmt.Errorf("invalid userID format")
	}
}
