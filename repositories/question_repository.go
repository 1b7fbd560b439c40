package repositories

import (
	"DoctorPortal/models"
)

type QuestionRepository interface {
	Save(question *models.DoctorQuestion) error
	SaveAttachment(attachment *models.QuestionAttachment) error
	FindByID(id string) (models.DoctorQuestion, error)
	FindAll() ([]models.DoctorQuestion, error)
	UpdateFields(id string, fields map[string]interface{}) error
	Delete(id string) error
}
