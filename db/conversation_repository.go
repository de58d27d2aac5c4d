package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/talkpointng/talkpoint/models"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	CreateConversation(participantIDs []uint) (*models.Conversation, error)
	FindConversationByID(id uuid.UUID) (*models.Conversation, error)
	GetConversationsForUser(userID uint) ([]models.Conversation, error)
	FindDirectConversation(userA uint, userB uint) (*models.Conversation, error)
	UpdateConversationLastMessage(conversationID uuid.UUID, lastMessage string, updatedAt time.Time) error
	IsUserParticipant(conversationID uuid.UUID, userID uint) (bool, error)
}

type conversationRepo struct {
	DB *gorm.DB
}

func NewConversationRepo(db *GormDB) ConversationRepository {
	return &conversationRepo{db.DB}
}

// CreateConversation persists a conversation and its membership rows in one
// transaction. Every participant id must resolve to an existing user.
func (r *conversationRepo) CreateConversation(participantIDs []uint) (*models.Conversation, error) {
	var users []models.User
	if err := r.DB.Where("id IN ?", participantIDs).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "could not load participants")
	}
	if len(users) != len(participantIDs) {
		return nil, gorm.ErrRecordNotFound
	}

	conversation := &models.Conversation{ID: uuid.New()}
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conversation).Error; err != nil {
			return err
		}
		return tx.Model(conversation).Association("Participants").Append(&users)
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create conversation")
	}

	conversation.Participants = users
	return conversation, nil
}

func (r *conversationRepo) FindConversationByID(id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.DB.Preload("Participants").Where("id = ?", id).First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetConversationsForUser lists every conversation the user belongs to, most
// recently active first.
func (r *conversationRepo) GetConversationsForUser(userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.DB.Preload("Participants").
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", userID).
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list conversations")
	}
	return conversations, nil
}

// FindDirectConversation returns the conversation whose participant set is
// exactly {userA, userB}, or nil when none exists. Group conversations that
// merely contain both users do not match.
func (r *conversationRepo) FindDirectConversation(userA uint, userB uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.DB.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id IN ?", []uint{userA, userB}).
		Group("conversations.id").
		Having("COUNT(DISTINCT cp.user_id) = 2").
		Having("(SELECT COUNT(*) FROM conversation_participants cp2 WHERE cp2.conversation_id = conversations.id) = 2").
		First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not look up direct conversation")
	}

	return r.FindConversationByID(conversation.ID)
}

// UpdateConversationLastMessage bumps updated_at and caches the latest
// message text on the conversation row.
func (r *conversationRepo) UpdateConversationLastMessage(conversationID uuid.UUID, lastMessage string, updatedAt time.Time) error {
	result := r.DB.Model(&models.Conversation{}).Where("id = ?", conversationID).
		Updates(map[string]interface{}{
			"last_message": lastMessage,
			"updated_at":   updatedAt,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "could not update conversation")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *conversationRepo) IsUserParticipant(conversationID uuid.UUID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Table("conversation_participants").
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "could not check membership")
	}
	return count > 0, nil
}
