package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/talkpointng/talkpoint/errors"
	"github.com/talkpointng/talkpoint/models"
	"github.com/talkpointng/talkpoint/server/response"
)

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}

		user, err := s.AuthService.GetUserProfile(userID)
		if err != nil {
			response.JSON(c, "", errs.FromError(err).Status, nil, err)
			return
		}
		response.JSON(c, "", http.StatusOK, user, nil)
	}
}

func (s *Server) handleEditUserProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}

		var details models.EditProfileRequest
		if err := decode(c, &details); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		if err := models.ValidateWhiteSpaces(&details); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		if err := s.AuthService.EditUserProfile(userID, &details); err != nil {
			response.JSON(c, "", errs.FromError(err).Status, nil, err)
			return
		}
		response.JSON(c, "Profile updated successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleChangePassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}

		var request models.ChangePassword
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		if apiErr := s.AuthService.ChangePassword(userID, &request); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Password updated successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleUpdateUserImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}

		fileHeader, err := c.FormFile("profile_image")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("profile_image file is required", http.StatusBadRequest))
			return
		}

		avatarURL, thumbnailURL, err := s.MediaService.UploadProfileImage(fileHeader, userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}

		response.JSON(c, "Profile image updated", http.StatusOK, gin.H{
			"avatar_url":    avatarURL,
			"thumbnail_url": thumbnailURL,
		}, nil)
	}
}

// handleGetUsers lists users the caller may message: everyone except
// private profiles and the caller.
func (s *Server) handleGetUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}

		users, err := s.AuthService.GetVisibleUsers(userID)
		if err != nil {
			response.JSON(c, "", errs.FromError(err).Status, nil, err)
			return
		}
		response.JSON(c, "", http.StatusOK, users, nil)
	}
}
