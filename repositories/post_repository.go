package repositories

import (
	"DoctorPortal/models"
)

type PostRepository interface {
	Save(post *models.Post) error
	Update(post *models.Post) error
	FindByID(id string) (models.Post, error)
	FindAll(publishedOnly bool) ([]models.Post, error)
	Delete(id string) error
}
