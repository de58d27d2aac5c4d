package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/talkpointng/talkpoint/models"
	"gorm.io/gorm"
)

type MessageRepository interface {
	SaveMessageAndTouchConversation(message *models.Message) error
	GetMessagesByConversation(conversationID uuid.UUID) ([]models.Message, error)
	GetMessagesAndMarkRead(conversationID uuid.UUID, readerID uint) ([]models.Message, error)
	FindMessageByID(id uuid.UUID) (*models.Message, error)
	MarkMessageRead(id uuid.UUID) error
	CountUnreadMessages(conversationID uuid.UUID, excludedSenderID uint) (int64, error)
	GetLastMessage(conversationID uuid.UUID) (*models.Message, error)
}

type messageRepo struct {
	DB *gorm.DB
}

func NewMessageRepo(db *GormDB) MessageRepository {
	return &messageRepo{db.DB}
}

// SaveMessageAndTouchConversation appends the message and bumps the owning
// conversation's updated_at and last_message cache in one transaction, so a
// concurrent reader never sees the append without the touch.
func (r *messageRepo) SaveMessageAndTouchConversation(message *models.Message) error {
	now := time.Now()
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	message.CreatedAt = now
	message.IsRead = false

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).Where("id = ?", message.ConversationID).
			Updates(map[string]interface{}{
				"last_message": message.Content,
				"updated_at":   now,
			}).Error
	})
	if err != nil {
		return errors.Wrap(err, "could not save message")
	}
	return nil
}

// GetMessagesByConversation returns the conversation's messages oldest
// first; seq breaks ties between equal timestamps in insertion order.
func (r *messageRepo) GetMessagesByConversation(conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.DB.Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, seq ASC").
		Find(&messages).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list messages")
	}
	return messages, nil
}

// GetMessagesAndMarkRead lists the conversation's messages ascending and, in
// the same transaction, flips is_read on every unread message that was not
// sent by the reader. The returned slice reflects the post-transition state.
func (r *messageRepo) GetMessagesAndMarkRead(conversationID uuid.UUID, readerID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Message{}).
			Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
			Update("is_read", true).Error; err != nil {
			return err
		}
		return tx.Preload("Sender").
			Where("conversation_id = ?", conversationID).
			Order("created_at ASC, seq ASC").
			Find(&messages).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not list messages")
	}
	return messages, nil
}

func (r *messageRepo) FindMessageByID(id uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := r.DB.Preload("Sender").Where("id = ?", id).First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// MarkMessageRead transitions is_read to true. Already-read messages are a
// no-op; the flag never reverts.
func (r *messageRepo) MarkMessageRead(id uuid.UUID) error {
	return r.DB.Model(&models.Message{}).Where("id = ?", id).
		Update("is_read", true).Error
}

// CountUnreadMessages counts unread messages in the conversation that were
// sent by someone other than excludedSenderID.
func (r *messageRepo) CountUnreadMessages(conversationID uuid.UUID, excludedSenderID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, excludedSenderID, false).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "could not count unread messages")
	}
	return count, nil
}

// GetLastMessage returns the newest message of the conversation, or nil when
// it has none yet.
func (r *messageRepo) GetLastMessage(conversationID uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := r.DB.Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, seq DESC").
		First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not load last message")
	}
	return &message, nil
}
