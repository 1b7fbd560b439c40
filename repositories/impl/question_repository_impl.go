package impl

import (
	"DoctorPortal/models"

	"gorm.io/gorm"
)

type QuestionRepositoryImpl struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepositoryImpl {
	return &QuestionRepositoryImpl{DB: db}
}

func (r *QuestionRepositoryImpl) Save(question *models.DoctorQuestion) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepositoryImpl) SaveAttachment(attachment *models.QuestionAttachment) error {
	return r.DB.Create(attachment).Error
}

func (r *QuestionRepositoryImpl) FindByID(id string) (models.DoctorQuestion, error) {
	var question models.DoctorQuestion
	err := r.DB.Preload("Attachments").First(&question, "id = ?", id).Error
	return question, err
}

func (r *QuestionRepositoryImpl) FindAll() ([]models.DoctorQuestion, error) {
	var questions []models.DoctorQuestion
	err := r.DB.Preload("Attachments").Order("created_at DESC").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepositoryImpl) UpdateFields(id string, fields map[string]interface{}) error {
	return r.DB.Model(&models.DoctorQuestion{}).Where("id = ?", id).Updates(fields).Error
}

func (r *QuestionRepositoryImpl) Delete(id string) error {
	// Сначала удаляем записи вложений, затем сам вопрос
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&models.QuestionAttachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.DoctorQuestion{}, "id = ?", id).Error
	})
}
