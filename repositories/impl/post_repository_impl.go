package impl

import (
	"DoctorPortal/models"

	"gorm.io/gorm"
)

type PostRepositoryImpl struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

func (r *PostRepositoryImpl) Save(post *models.Post) error {
	return r.DB.Create(post).Error
}

func (r *PostRepositoryImpl) Update(post *models.Post) error {
	return r.DB.Save(post).Error
}

func (r *PostRepositoryImpl) FindByID(id string) (models.Post, error) {
	var post models.Post
	err := r.DB.First(&post, "id = ?", id).Error
	return post, err
}

func (r *PostRepositoryImpl) FindAll(publishedOnly bool) ([]models.Post, error) {
	var posts []models.Post
	query := r.DB.Order("created_at DESC")
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	err := query.Find(&posts).Error
	return posts, err
}

func (r *PostRepositoryImpl) Delete(id string) error {
	return r.DB.Delete(&models.Post{}, "id = ?", id).Error
}
