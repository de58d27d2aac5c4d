package services

import (
	"log"

	"github.com/google/uuid"
	"github.com/talkpointng/talkpoint/config"
	"github.com/talkpointng/talkpoint/db"
	apiError "github.com/talkpointng/talkpoint/errors"
	"github.com/talkpointng/talkpoint/models"
)

// MessageService orchestrates message creation, listing and read-state
// transitions. Every operation checks conversation membership before
// touching the message store.
type MessageService interface {
	ListConversationMessages(conversationID uuid.UUID, requesterID uint) ([]models.MessageResponse, *apiError.Error)
	SendMessage(conversationID uuid.UUID, senderID uint, content string) (*models.MessageResponse, *apiError.Error)
	MarkMessageRead(messageID uuid.UUID, requesterID uint) (*models.MessageResponse, *apiError.Error)
	GetUnreadCount(conversationID uuid.UUID, userID uint) (int64, *apiError.Error)
}

type messageService struct {
	Config           *config.Config
	messageRepo      db.MessageRepository
	conversationRepo db.ConversationRepository
}

func NewMessageService(messageRepo db.MessageRepository, conversationRepo db.ConversationRepository, conf *config.Config) MessageService {
	return &messageService{
		Config:           conf,
		messageRepo:      messageRepo,
		conversationRepo: conversationRepo,
	}
}

// ListConversationMessages returns the conversation's messages oldest first.
// Opening a conversation marks everything in it as seen: every unread
// message not sent by the requester transitions to read in the same
// transaction that lists them.
func (s *messageService) ListConversationMessages(conversationID uuid.UUID, requesterID uint) ([]models.MessageResponse, *apiError.Error) {
	if apiErr := s.assertParticipant(conversationID, requesterID); apiErr != nil {
		return nil, apiErr
	}

	messages, err := s.messageRepo.GetMessagesAndMarkRead(conversationID, requesterID)
	if err != nil {
		log.Printf("ListConversationMessages error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	responses := make([]models.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, models.NewMessageResponse(&messages[i]))
	}
	return responses, nil
}

// SendMessage appends a message from sender to the conversation and bumps
// the conversation's activity timestamp. Empty content is allowed.
func (s *messageService) SendMessage(conversationID uuid.UUID, senderID uint, content string) (*models.MessageResponse, *apiError.Error) {
	if apiErr := s.assertParticipant(conversationID, senderID); apiErr != nil {
		return nil, apiErr
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := s.messageRepo.SaveMessageAndTouchConversation(message); err != nil {
		log.Printf("SendMessage error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	saved, err := s.messageRepo.FindMessageByID(message.ID)
	if err != nil {
		log.Printf("SendMessage reload error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	resp := models.NewMessageResponse(saved)
	return &resp, nil
}

// MarkMessageRead transitions the message's read flag to true. The requester
// must be a participant of the message's conversation; repeated calls are
// no-ops.
func (s *messageService) MarkMessageRead(messageID uuid.UUID, requesterID uint) (*models.MessageResponse, *apiError.Error) {
	message, err := s.messageRepo.FindMessageByID(messageID)
	if err != nil {
		if gormNotFound(err) {
			return nil, apiError.ErrMessageNotFound
		}
		log.Printf("MarkMessageRead lookup error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if apiErr := s.assertParticipant(message.ConversationID, requesterID); apiErr != nil {
		return nil, apiErr
	}

	if !message.IsRead {
		if err := s.messageRepo.MarkMessageRead(messageID); err != nil {
			log.Printf("MarkMessageRead error: %v", err)
			return nil, apiError.ErrInternalServerError
		}
		message.IsRead = true
	}

	resp := models.NewMessageResponse(message)
	return &resp, nil
}

// GetUnreadCount counts the conversation's unread messages sent by anyone
// other than the user.
func (s *messageService) GetUnreadCount(conversationID uuid.UUID, userID uint) (int64, *apiError.Error) {
	if apiErr := s.assertParticipant(conversationID, userID); apiErr != nil {
		return 0, apiErr
	}

	count, err := s.messageRepo.CountUnreadMessages(conversationID, userID)
	if err != nil {
		log.Printf("GetUnreadCount error: %v", err)
		return 0, apiError.ErrInternalServerError
	}
	return count, nil
}

func (s *messageService) assertParticipant(conversationID uuid.UUID, userID uint) *apiError.Error {
	_, err := s.conversationRepo.FindConversationByID(conversationID)
	if err != nil {
		if gormNotFound(err) {
			return apiError.ErrConversationNotFound
		}
		log.Printf("assertParticipant lookup error: %v", err)
		return apiError.ErrInternalServerError
	}

	ok, err := s.conversationRepo.IsUserParticipant(conversationID, userID)
	if err != nil {
		log.Printf("assertParticipant error: %v", err)
		return apiError.ErrInternalServerError
	}
	if !ok {
		return apiError.ErrNotParticipant
	}
	return nil
}
