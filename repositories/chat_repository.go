package repositories

import (
	"DoctorPortal/models"
)

type ChatRepository interface {
	SaveExchange(exchange *models.ChatHistory) error
	FindBySession(sessionID string) ([]models.ChatHistory, error)
	FindAll() ([]models.ChatHistory, error)
	DeleteSession(sessionID string) error
}
