package services

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// ObjectStorage — контракт хранилища файлов вопросов
type ObjectStorage interface {
	Upload(ctx context.Context, objectPath, contentType string, data []byte) error
	Remove(ctx context.Context, objectPath string) error
	PublicURL(objectPath string) string
	SignedURL(objectPath string, expiry time.Duration) (string, error)
}

// FirebaseStorage загружает объекты в бакет Firebase Storage
// с повторными попытками при сбоях
type FirebaseStorage struct {
	Bucket *storage.BucketHandle
	Name   string
	Retry  RetryPolicy
}

func NewFirebaseStorage(bucket *storage.BucketHandle, name string) *FirebaseStorage {
	return &FirebaseStorage{
		Bucket: bucket,
		Name:   name,
		Retry:  DefaultUploadRetryPolicy(),
	}
}

func (s *FirebaseStorage) Upload(ctx context.Context, objectPath, contentType string, data []byte) error {
	return s.Retry.Do(ctx, func() error {
		writer := s.Bucket.Object(objectPath).NewWriter(ctx)
		writer.ContentType = contentType
		if _, err := writer.Write(data); err != nil {
			writer.Close()
			return fmt.Errorf("write object %s: %w", objectPath, err)
		}
		if err := writer.Close(); err != nil {
			return fmt.Errorf("finalize object %s: %w", objectPath, err)
		}
		return nil
	})
}

func (s *FirebaseStorage) Remove(ctx context.Context, objectPath string) error {
	if err := s.Bucket.Object(objectPath).Delete(ctx); err != nil {
		return fmt.Errorf("delete object %s: %w", objectPath, err)
	}
	return nil
}

func (s *FirebaseStorage) PublicURL(objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.Name, objectPath)
}

func (s *FirebaseStorage) SignedURL(objectPath string, expiry time.Duration) (string, error) {
	url, err := s.Bucket.SignedURL(objectPath, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(expiry),
	})
	if err != nil {
		return "", fmt.Errorf("sign url for %s: %w", objectPath, err)
	}
	return url, nil
}

var objectSlugPattern = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ObjectPathFor строит путь объекта: <questionID>/<slug>-<timestamp>.<ext>
func ObjectPathFor(questionID, fileName string) string {
	ext := path.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	slug := objectSlugPattern.ReplaceAllString(base, "_")
	return fmt.Sprintf("%s/%s-%d%s", questionID, slug, time.Now().UnixMilli(), ext)
}
