package mocks

import (
	"DoctorPortal/models"

	"github.com/stretchr/testify/mock"
)

type PostRepository struct {
	mock.Mock
}

func (m *PostRepository) Save(post *models.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *PostRepository) Update(post *models.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *PostRepository) FindByID(id string) (models.Post, error) {
	args := m.Called(id)
	return args.Get(0).(models.Post), args.Error(1)
}

func (m *PostRepository) FindAll(publishedOnly bool) ([]models.Post, error) {
	args := m.Called(publishedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *PostRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}
