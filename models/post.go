package models

import (
	"time"
)

// Post — новость на трех языках (en/ka/ru) с опциональным изображением
type Post struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	TitleEN   string `gorm:"column:title_en" json:"title_en"`
	TitleKA   string `gorm:"column:title_ka" json:"title_ka"`
	TitleRU   string `gorm:"column:title_ru" json:"title_ru"`
	ContentEN string `gorm:"column:content_en" json:"content_en"`
	ContentKA string `gorm:"column:content_ka" json:"content_ka"`
	ContentRU string `gorm:"column:content_ru" json:"content_ru"`

	ImagePath   string     `gorm:"column:image_path" json:"image_path,omitempty"`
	Published   bool       `gorm:"column:published;default:false" json:"published"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}
