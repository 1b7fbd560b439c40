package mocks

import (
	"DoctorPortal/models"

	"github.com/stretchr/testify/mock"
)

type QuestionRepository struct {
	mock.Mock
}

func (m *QuestionRepository) Save(question *models.DoctorQuestion) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *QuestionRepository) SaveAttachment(attachment *models.QuestionAttachment) error {
	args := m.Called(attachment)
	return args.Error(0)
}

func (m *QuestionRepository) FindByID(id string) (models.DoctorQuestion, error) {
	args := m.Called(id)
	return args.Get(0).(models.DoctorQuestion), args.Error(1)
}

func (m *QuestionRepository) FindAll() ([]models.DoctorQuestion, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DoctorQuestion), args.Error(1)
}

func (m *QuestionRepository) UpdateFields(id string, fields map[string]interface{}) error {
	args := m.Called(id, fields)
	return args.Error(0)
}

func (m *QuestionRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}
