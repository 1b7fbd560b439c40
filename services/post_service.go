package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"DoctorPortal/models"
	"DoctorPortal/pkg/logger"
	"DoctorPortal/repositories"

	"github.com/google/uuid"
)

var ErrPostNotFound = errors.New("post not found")

// PostInput — данные формы новости. Заполненные локали копируются
// в пустые, чтобы пост читался на всех трех языках.
type PostInput struct {
	TitleEN   string
	TitleKA   string
	TitleRU   string
	ContentEN string
	ContentKA string
	ContentRU string
	Published bool
	Image     *FileInput
}

type PostService struct {
	repo    repositories.PostRepository
	storage ObjectStorage
}

func NewPostService(repo repositories.PostRepository, storage ObjectStorage) *PostService {
	return &PostService{repo: repo, storage: storage}
}

func (s *PostService) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	post := &models.Post{ID: uuid.NewString()}
	applyInput(post, in)

	if in.Image != nil {
		path, err := s.uploadImage(ctx, post.ID, in.Image)
		if err != nil {
			return nil, err
		}
		post.ImagePath = path
	}

	if in.Published {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.repo.Save(post); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	return post, nil
}

// Update обновляет пост. Новое изображение замещает старое,
// прежний файл удаляется из хранилища.
func (s *PostService) Update(ctx context.Context, id string, in PostInput) (*models.Post, error) {
	post, err := s.repo.FindByID(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	wasPublished := post.Published
	applyInput(&post, in)

	if in.Image != nil {
		path, err := s.uploadImage(ctx, post.ID, in.Image)
		if err != nil {
			return nil, err
		}
		if post.ImagePath != "" {
			if err := s.storage.Remove(ctx, post.ImagePath); err != nil {
				logger.Get().WithError(err).Warnf("could not remove old post image %s", post.ImagePath)
			}
		}
		post.ImagePath = path
	}

	// отметка первой публикации, при повторных публикациях не меняется
	if in.Published && !wasPublished && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.repo.Update(&post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return &post, nil
}

func (s *PostService) Get(id string) (models.Post, error) {
	post, err := s.repo.FindByID(id)
	if err != nil {
		return models.Post{}, ErrPostNotFound
	}
	return post, nil
}

// List возвращает посты, свежие первыми. publishedOnly — для публичной части.
func (s *PostService) List(publishedOnly bool) ([]models.Post, error) {
	posts, err := s.repo.FindAll(publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	post, err := s.repo.FindByID(id)
	if err != nil {
		return ErrPostNotFound
	}

	if post.ImagePath != "" {
		if err := s.storage.Remove(ctx, post.ImagePath); err != nil {
			logger.Get().WithError(err).Warnf("could not remove post image %s", post.ImagePath)
		}
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func (s *PostService) uploadImage(ctx context.Context, postID string, img *FileInput) (string, error) {
	path := ObjectPathFor("posts/"+postID, img.Name)
	if err := s.storage.Upload(ctx, path, img.MimeType, img.Data); err != nil {
		return "", fmt.Errorf("upload post image: %w", err)
	}
	return path, nil
}

// applyInput переносит поля формы в пост, подставляя первую непустую
// локаль (en, затем ka, затем ru) вместо незаполненных
func applyInput(post *models.Post, in PostInput) {
	post.TitleEN, post.TitleKA, post.TitleRU = fillLocales(in.TitleEN, in.TitleKA, in.TitleRU)
	post.ContentEN, post.ContentKA, post.ContentRU = fillLocales(in.ContentEN, in.ContentKA, in.ContentRU)
	post.Published = in.Published
}

func fillLocales(en, ka, ru string) (string, string, string) {
	source := en
	if source == "" {
		source = ka
	}
	if source == "" {
		source = ru
	}
	if en == "" {
		en = source
	}
	if ka == "" {
		ka = source
	}
	if ru == "" {
		ru = source
	}
	return en, ka, ru
}
