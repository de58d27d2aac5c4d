package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/talkpointng/talkpoint/config"
	"github.com/talkpointng/talkpoint/db"
	apiError "github.com/talkpointng/talkpoint/errors"
	"github.com/talkpointng/talkpoint/models"
	"gorm.io/gorm"
)

// ConversationService orchestrates conversation creation, lookup and
// membership checks on top of the conversation store.
type ConversationService interface {
	CreateConversation(userID uint, participantIDs []uint) (*models.ConversationResponse, *apiError.Error)
	GetUserConversations(userID uint) ([]models.ConversationResponse, *apiError.Error)
	GetConversation(conversationID uuid.UUID, userID uint) (*models.ConversationResponse, *apiError.Error)
	GetOrCreateDirectConversation(userID uint, otherUserID uint) (*models.ConversationResponse, *apiError.Error)
	AssertParticipant(conversationID uuid.UUID, userID uint) *apiError.Error
}

type conversationService struct {
	Config           *config.Config
	conversationRepo db.ConversationRepository
	messageRepo      db.MessageRepository

	// pairLocks serializes direct-conversation lookup-and-create per
	// unordered user pair so two near-simultaneous calls from each side
	// cannot create duplicates.
	pairLocks sync.Map
}

func NewConversationService(conversationRepo db.ConversationRepository, messageRepo db.MessageRepository, conf *config.Config) ConversationService {
	return &conversationService{
		Config:           conf,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
	}
}

// CreateConversation creates a conversation out of the initiator plus the
// given participant ids. The resulting set must hold at least two distinct
// users.
func (s *conversationService) CreateConversation(userID uint, participantIDs []uint) (*models.ConversationResponse, *apiError.Error) {
	seen := map[uint]bool{userID: true}
	ids := []uint{userID}
	for _, id := range participantIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) < 2 {
		return nil, apiError.ErrInvalidMembership
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	conversation, err := s.conversationRepo.CreateConversation(ids)
	if err != nil {
		if gormNotFound(err) {
			return nil, apiError.ErrUserNotFound
		}
		log.Printf("CreateConversation error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return s.buildConversationResponse(conversation, userID)
}

// GetUserConversations lists the user's conversations, most recently active
// first, each with its last message and the user's unread count.
func (s *conversationService) GetUserConversations(userID uint) ([]models.ConversationResponse, *apiError.Error) {
	conversations, err := s.conversationRepo.GetConversationsForUser(userID)
	if err != nil {
		log.Printf("GetUserConversations error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	responses := make([]models.ConversationResponse, 0, len(conversations))
	for i := range conversations {
		resp, apiErr := s.buildConversationResponse(&conversations[i], userID)
		if apiErr != nil {
			return nil, apiErr
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

func (s *conversationService) GetConversation(conversationID uuid.UUID, userID uint) (*models.ConversationResponse, *apiError.Error) {
	conversation, err := s.conversationRepo.FindConversationByID(conversationID)
	if err != nil {
		if gormNotFound(err) {
			return nil, apiError.ErrConversationNotFound
		}
		log.Printf("GetConversation error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if !containsParticipant(conversation.Participants, userID) {
		return nil, apiError.ErrNotParticipant
	}

	return s.buildConversationResponse(conversation, userID)
}

// GetOrCreateDirectConversation returns the unique two-party conversation
// between the caller and the other user, creating it when absent. The
// check-and-create runs under a mutex keyed by the normalized pair, so
// concurrent calls from both ends converge on a single conversation.
func (s *conversationService) GetOrCreateDirectConversation(userID uint, otherUserID uint) (*models.ConversationResponse, *apiError.Error) {
	if otherUserID == 0 {
		return nil, apiError.ErrMissingUserID
	}
	if otherUserID == userID {
		return nil, apiError.ErrInvalidMembership
	}

	lock := s.pairLock(userID, otherUserID)
	lock.Lock()
	defer lock.Unlock()

	conversation, err := s.conversationRepo.FindDirectConversation(userID, otherUserID)
	if err != nil {
		log.Printf("GetOrCreateDirectConversation lookup error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if conversation == nil {
		conversation, err = s.conversationRepo.CreateConversation([]uint{userID, otherUserID})
		if err != nil {
			if gormNotFound(err) {
				return nil, apiError.ErrUserNotFound
			}
			log.Printf("GetOrCreateDirectConversation create error: %v", err)
			return nil, apiError.ErrInternalServerError
		}
	}

	return s.buildConversationResponse(conversation, userID)
}

// AssertParticipant fails with a forbidden error when the user is not a
// member of the conversation.
func (s *conversationService) AssertParticipant(conversationID uuid.UUID, userID uint) *apiError.Error {
	ok, err := s.conversationRepo.IsUserParticipant(conversationID, userID)
	if err != nil {
		log.Printf("AssertParticipant error: %v", err)
		return apiError.ErrInternalServerError
	}
	if !ok {
		return apiError.ErrNotParticipant
	}
	return nil
}

func (s *conversationService) pairLock(a, b uint) *sync.Mutex {
	if a > b {
		a, b = b, a
	}
	key := fmt.Sprintf("%d:%d", a, b)
	lock, _ := s.pairLocks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (s *conversationService) buildConversationResponse(conversation *models.Conversation, userID uint) (*models.ConversationResponse, *apiError.Error) {
	lastMessage, err := s.messageRepo.GetLastMessage(conversation.ID)
	if err != nil {
		log.Printf("buildConversationResponse last message error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	unread, err := s.messageRepo.CountUnreadMessages(conversation.ID, userID)
	if err != nil {
		log.Printf("buildConversationResponse unread count error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	participants := make([]models.UserResponse, 0, len(conversation.Participants))
	for i := range conversation.Participants {
		participants = append(participants, models.NewUserResponse(&conversation.Participants[i]))
	}

	resp := &models.ConversationResponse{
		ID:           conversation.ID,
		Participants: participants,
		CreatedAt:    conversation.CreatedAt,
		UpdatedAt:    conversation.UpdatedAt,
		UnreadCount:  unread,
	}
	if lastMessage != nil {
		msgResp := models.NewMessageResponse(lastMessage)
		resp.LastMessage = &msgResp
	}
	return resp, nil
}

func containsParticipant(participants []models.User, userID uint) bool {
	for i := range participants {
		if participants[i].ID == userID {
			return true
		}
	}
	return false
}

func gormNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
