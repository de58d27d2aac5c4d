package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/talkpointng/talkpoint/models"
	"gorm.io/gorm"
)

func errRecordNotFound() error {
	return gorm.ErrRecordNotFound
}

// fakeConversationStore is an in-memory stand-in for both stores, used where
// mock expectations get in the way (the direct-conversation race tests).
type fakeConversationStore struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]*models.Conversation
	createCount   int
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{
		conversations: make(map[uuid.UUID]*models.Conversation),
	}
}

func (f *fakeConversationStore) created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCount
}

func (f *fakeConversationStore) CreateConversation(participantIDs []uint) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := make([]models.User, 0, len(participantIDs))
	for _, id := range participantIDs {
		users = append(users, models.User{Model: models.Model{ID: id}})
	}
	conv := &models.Conversation{
		ID:           uuid.New(),
		Participants: users,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.conversations[conv.ID] = conv
	f.createCount++
	return conv, nil
}

func (f *fakeConversationStore) FindConversationByID(id uuid.UUID) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if conv, ok := f.conversations[id]; ok {
		return conv, nil
	}
	return nil, errRecordNotFound()
}

func (f *fakeConversationStore) GetConversationsForUser(userID uint) ([]models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Conversation
	for _, conv := range f.conversations {
		for _, p := range conv.Participants {
			if p.ID == userID {
				out = append(out, *conv)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeConversationStore) FindDirectConversation(userA uint, userB uint) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, conv := range f.conversations {
		if len(conv.Participants) != 2 {
			continue
		}
		ids := map[uint]bool{}
		for _, p := range conv.Participants {
			ids[p.ID] = true
		}
		if ids[userA] && ids[userB] {
			return conv, nil
		}
	}
	return nil, nil
}

func (f *fakeConversationStore) UpdateConversationLastMessage(conversationID uuid.UUID, lastMessage string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if conv, ok := f.conversations[conversationID]; ok {
		conv.LastMessage = lastMessage
		conv.UpdatedAt = updatedAt
		return nil
	}
	return errRecordNotFound()
}

func (f *fakeConversationStore) IsUserParticipant(conversationID uuid.UUID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.conversations[conversationID]
	if !ok {
		return false, nil
	}
	for _, p := range conv.Participants {
		if p.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConversationStore) SaveMessageAndTouchConversation(message *models.Message) error {
	return nil
}

func (f *fakeConversationStore) GetMessagesByConversation(conversationID uuid.UUID) ([]models.Message, error) {
	return nil, nil
}

func (f *fakeConversationStore) GetMessagesAndMarkRead(conversationID uuid.UUID, readerID uint) ([]models.Message, error) {
	return nil, nil
}

func (f *fakeConversationStore) FindMessageByID(id uuid.UUID) (*models.Message, error) {
	return nil, errRecordNotFound()
}

func (f *fakeConversationStore) MarkMessageRead(id uuid.UUID) error {
	return nil
}

func (f *fakeConversationStore) CountUnreadMessages(conversationID uuid.UUID, excludedSenderID uint) (int64, error) {
	return 0, nil
}

func (f *fakeConversationStore) GetLastMessage(conversationID uuid.UUID) (*models.Message, error) {
	return nil, nil
}
