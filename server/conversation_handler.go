package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	errs "github.com/talkpointng/talkpoint/errors"
	"github.com/talkpointng/talkpoint/models"
	"github.com/talkpointng/talkpoint/server/response"
)

func (s *Server) handleCreateConversation() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}

		var request models.CreateConversationRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		conversation, apiErr := s.ConversationService.CreateConversation(userID, request.Participants)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Conversation created", http.StatusCreated, conversation, nil)
	}
}

func (s *Server) handleGetConversations() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}

		conversations, apiErr := s.ConversationService.GetUserConversations(userID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, conversations, nil)
	}
}

func (s *Server) handleGetConversation() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}

		conversationID, err := uuid.Parse(c.Param("conversationID"))
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid conversation id", http.StatusBadRequest))
			return
		}

		conversation, apiErr := s.ConversationService.GetConversation(conversationID, userID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, conversation, nil)
	}
}

// handleGetOrCreateDirectConversation returns the caller's two-party
// conversation with ?user_id=<id>, creating it on first use.
func (s *Server) handleGetOrCreateDirectConversation() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}

		otherIDStr := c.Query("user_id")
		if otherIDStr == "" {
			response.JSON(c, "", errs.ErrMissingUserID.Status, nil, errs.ErrMissingUserID)
			return
		}
		otherID, err := strconv.ParseUint(otherIDStr, 10, 64)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid user_id", http.StatusBadRequest))
			return
		}

		conversation, apiErr := s.ConversationService.GetOrCreateDirectConversation(userID, uint(otherID))
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, conversation, nil)
	}
}
