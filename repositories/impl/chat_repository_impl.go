package impl

import (
	"DoctorPortal/models"

	"gorm.io/gorm"
)

type ChatRepositoryImpl struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepositoryImpl {
	return &ChatRepositoryImpl{DB: db}
}

func (r *ChatRepositoryImpl) SaveExchange(exchange *models.ChatHistory) error {
	return r.DB.Create(exchange).Error
}

// FindBySession возвращает историю одной сессии в порядке создания
func (r *ChatRepositoryImpl) FindBySession(sessionID string) ([]models.ChatHistory, error) {
	var history []models.ChatHistory
	err := r.DB.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&history).Error
	return history, err
}

// FindAll возвращает всю историю, сначала самые новые записи
func (r *ChatRepositoryImpl) FindAll() ([]models.ChatHistory, error) {
	var history []models.ChatHistory
	err := r.DB.Order("created_at DESC").Find(&history).Error
	return history, err
}

func (r *ChatRepositoryImpl) DeleteSession(sessionID string) error {
	return r.DB.Where("session_id = ?", sessionID).Delete(&models.ChatHistory{}).Error
}
