package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	errs "github.com/talkpointng/talkpoint/errors"
	"github.com/talkpointng/talkpoint/models"
	"github.com/talkpointng/talkpoint/server/response"
)

// handleGetMessages lists a conversation's messages oldest first. Fetching
// them marks every incoming unread message as read.
func (s *Server) handleGetMessages() gin.HandlerFunc {
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

		messages, apiErr := s.MessageService.ListConversationMessages(conversationID, userID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, messages, nil)
	}
}

func (s *Server) handleSendMessage() gin.HandlerFunc {
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

		var request models.SendMessageRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		message, apiErr := s.MessageService.SendMessage(conversationID, userID, request.Content)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "Message sent successfully", http.StatusCreated, message, nil)
	}
}

func (s *Server) handleMarkMessageRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}

		messageID, err := uuid.Parse(c.Param("messageID"))
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid message id", http.StatusBadRequest))
			return
		}

		message, apiErr := s.MessageService.MarkMessageRead(messageID, userID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, message, nil)
	}
}

func (s *Server) handleGetUnreadCount() gin.HandlerFunc {
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

		count, apiErr := s.MessageService.GetUnreadCount(conversationID, userID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"unread_count": count}, nil)
	}
}
