package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/talkpointng/talkpoint/models"
)

type mockConversationRepo struct {
	mock.Mock
}

func (m *mockConversationRepo) CreateConversation(participantIDs []uint) (*models.Conversation, error) {
	args := m.Called(participantIDs)
	if conv := args.Get(0); conv != nil {
		return conv.(*models.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConversationRepo) FindConversationByID(id uuid.UUID) (*models.Conversation, error) {
	args := m.Called(id)
	if conv := args.Get(0); conv != nil {
		return conv.(*models.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConversationRepo) GetConversationsForUser(userID uint) ([]models.Conversation, error) {
	args := m.Called(userID)
	if convs := args.Get(0); convs != nil {
		return convs.([]models.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConversationRepo) FindDirectConversation(userA uint, userB uint) (*models.Conversation, error) {
	args := m.Called(userA, userB)
	if conv := args.Get(0); conv != nil {
		return conv.(*models.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConversationRepo) UpdateConversationLastMessage(conversationID uuid.UUID, lastMessage string, updatedAt time.Time) error {
	args := m.Called(conversationID, lastMessage, updatedAt)
	return args.Error(0)
}

func (m *mockConversationRepo) IsUserParticipant(conversationID uuid.UUID, userID uint) (bool, error) {
	args := m.Called(conversationID, userID)
	return args.Bool(0), args.Error(1)
}

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) SaveMessageAndTouchConversation(message *models.Message) error {
	args := m.Called(message)
	return args.Error(0)
}

func (m *mockMessageRepo) GetMessagesByConversation(conversationID uuid.UUID) ([]models.Message, error) {
	args := m.Called(conversationID)
	if msgs := args.Get(0); msgs != nil {
		return msgs.([]models.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMessageRepo) GetMessagesAndMarkRead(conversationID uuid.UUID, readerID uint) ([]models.Message, error) {
	args := m.Called(conversationID, readerID)
	if msgs := args.Get(0); msgs != nil {
		return msgs.([]models.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMessageRepo) FindMessageByID(id uuid.UUID) (*models.Message, error) {
	args := m.Called(id)
	if msg := args.Get(0); msg != nil {
		return msg.(*models.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMessageRepo) MarkMessageRead(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockMessageRepo) CountUnreadMessages(conversationID uuid.UUID, excludedSenderID uint) (int64, error) {
	args := m.Called(conversationID, excludedSenderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageRepo) GetLastMessage(conversationID uuid.UUID) (*models.Message, error) {
	args := m.Called(conversationID)
	if msg := args.Get(0); msg != nil {
		return msg.(*models.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) CreateUser(user *models.User) (*models.User, error) {
	args := m.Called(user)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthRepo) IsEmailExist(email string) error {
	args := m.Called(email)
	return args.Error(0)
}

func (m *mockAuthRepo) IsUsernameExist(username string) error {
	args := m.Called(username)
	return args.Error(0)
}

func (m *mockAuthRepo) FindUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthRepo) FindUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthRepo) UpdateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockAuthRepo) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	args := m.Called(userID, details)
	return args.Error(0)
}

func (m *mockAuthRepo) UpdatePassword(userID uint, hashedPassword string) error {
	args := m.Called(userID, hashedPassword)
	return args.Error(0)
}

func (m *mockAuthRepo) UpsertUserImage(userID uint, avatarURL string, thumbNailURL string) error {
	args := m.Called(userID, avatarURL, thumbNailURL)
	return args.Error(0)
}

func (m *mockAuthRepo) GetVisibleUsers(excludedUserID uint) ([]models.User, error) {
	args := m.Called(excludedUserID)
	if users := args.Get(0); users != nil {
		return users.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthRepo) AddToBlackList(blacklist *models.Blacklist) error {
	args := m.Called(blacklist)
	return args.Error(0)
}

func (m *mockAuthRepo) IsTokenInBlacklist(token string) bool {
	args := m.Called(token)
	return args.Bool(0)
}

func (m *mockAuthRepo) SetUserOnline(userID uint, online bool) error {
	args := m.Called(userID, online)
	return args.Error(0)
}
