package services

import (
	"context"
	"testing"
	"time"

	"DoctorPortal/models"
	"DoctorPortal/repositories/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreatePost_FillsMissingLocalesFromEnglish(t *testing.T) {
	repo := new(mocks.PostRepository)
	svc := NewPostService(repo, newFakeStorage())

	var saved *models.Post
	repo.On("Save", mock.AnythingOfType("*models.Post")).Run(func(args mock.Arguments) {
		saved = args.Get(0).(*models.Post)
	}).Return(nil)

	_, err := svc.Create(context.Background(), PostInput{
		TitleEN:   "Clinic news",
		ContentEN: "We are open on Saturdays now.",
		Published: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Clinic news", saved.TitleKA)
	assert.Equal(t, "Clinic news", saved.TitleRU)
	assert.Equal(t, "We are open on Saturdays now.", saved.ContentKA)
	assert.Equal(t, "We are open on Saturdays now.", saved.ContentRU)
	assert.NotNil(t, saved.PublishedAt)
}

func TestCreatePost_GeorgianSourceWhenEnglishEmpty(t *testing.T) {
	repo := new(mocks.PostRepository)
	svc := NewPostService(repo, newFakeStorage())

	var saved *models.Post
	repo.On("Save", mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(0).(*models.Post)
	}).Return(nil)

	_, err := svc.Create(context.Background(), PostInput{
		TitleKA:   "სიახლე",
		ContentKA: "ტექსტი",
	})

	assert.NoError(t, err)
	assert.Equal(t, "სიახლე", saved.TitleEN)
	assert.Equal(t, "სიახლე", saved.TitleRU)
	assert.Nil(t, saved.PublishedAt)
}

func TestCreatePost_UploadsImage(t *testing.T) {
	repo := new(mocks.PostRepository)
	storage := newFakeStorage()
	svc := NewPostService(repo, storage)

	repo.On("Save", mock.Anything).Return(nil)

	post, err := svc.Create(context.Background(), PostInput{
		TitleEN:   "With image",
		ContentEN: "text",
		Image:     &FileInput{Name: "cover.jpg", MimeType: "image/jpeg", Data: []byte("jpg")},
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, post.ImagePath)
	assert.Contains(t, post.ImagePath, "posts/"+post.ID)
	_, stored := storage.objects[post.ImagePath]
	assert.True(t, stored)
}

func TestUpdatePost_ReplacingImageRemovesOld(t *testing.T) {
	repo := new(mocks.PostRepository)
	storage := newFakeStorage()
	svc := NewPostService(repo, storage)

	repo.On("FindByID", "p1").Return(models.Post{
		ID: "p1", TitleEN: "Old", ContentEN: "old", ImagePath: "posts/p1/old-1.jpg",
	}, nil)
	repo.On("Update", mock.Anything).Return(nil)

	post, err := svc.Update(context.Background(), "p1", PostInput{
		TitleEN:   "New",
		ContentEN: "new",
		Image:     &FileInput{Name: "new.jpg", MimeType: "image/jpeg", Data: []byte("jpg")},
	})

	assert.NoError(t, err)
	assert.Contains(t, storage.removed, "posts/p1/old-1.jpg")
	assert.NotEqual(t, "posts/p1/old-1.jpg", post.ImagePath)
}

func TestUpdatePost_FirstPublishStampsOnce(t *testing.T) {
	repo := new(mocks.PostRepository)
	svc := NewPostService(repo, newFakeStorage())

	repo.On("FindByID", "p1").Return(models.Post{ID: "p1", TitleEN: "T", ContentEN: "C"}, nil).Once()
	repo.On("Update", mock.Anything).Return(nil)

	post, err := svc.Update(context.Background(), "p1", PostInput{TitleEN: "T", ContentEN: "C", Published: true})
	assert.NoError(t, err)
	assert.NotNil(t, post.PublishedAt)
	firstStamp := *post.PublishedAt

	// повторная публикация после снятия не трогает published_at
	repo.On("FindByID", "p1").Return(*post, nil).Once()
	again, err := svc.Update(context.Background(), "p1", PostInput{TitleEN: "T", ContentEN: "C", Published: true})
	assert.NoError(t, err)
	assert.Equal(t, firstStamp.Unix(), again.PublishedAt.Unix())
}

func TestDeletePost_RemovesImage(t *testing.T) {
	repo := new(mocks.PostRepository)
	storage := newFakeStorage()
	svc := NewPostService(repo, storage)

	repo.On("FindByID", "p1").Return(models.Post{ID: "p1", ImagePath: "posts/p1/cover-1.jpg"}, nil)
	repo.On("Delete", "p1").Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), "p1"))
	assert.Contains(t, storage.removed, "posts/p1/cover-1.jpg")
}

func TestListPosts_PassesPublishedFlag(t *testing.T) {
	repo := new(mocks.PostRepository)
	svc := NewPostService(repo, newFakeStorage())

	now := time.Now()
	repo.On("FindAll", true).Return([]models.Post{{ID: "p1", Published: true, PublishedAt: &now}}, nil)

	posts, err := svc.List(true)
	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	repo.AssertCalled(t, "FindAll", true)
}
