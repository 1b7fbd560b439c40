package mocks

import (
	"DoctorPortal/models"

	"github.com/stretchr/testify/mock"
)

type ChatRepository struct {
	mock.Mock
}

func (m *ChatRepository) SaveExchange(exchange *models.ChatHistory) error {
	args := m.Called(exchange)
	return args.Error(0)
}

func (m *ChatRepository) FindBySession(sessionID string) ([]models.ChatHistory, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatHistory), args.Error(1)
}

func (m *ChatRepository) FindAll() ([]models.ChatHistory, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatHistory), args.Error(1)
}

func (m *ChatRepository) DeleteSession(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}
