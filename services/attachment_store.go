package services

import (
	"context"
	"sync"

	"DoctorPortal/models"
)

// AttachmentStore хранит вложения одной формы вопроса в порядке добавления
// и отслеживает прогресс их фоновой обработки
type AttachmentStore struct {
	mu        sync.Mutex
	wg        sync.WaitGroup
	validator *UploadValidator
	processor *FileProcessor
	entries   []models.Attachment
}

func NewAttachmentStore(validator *UploadValidator, processor *FileProcessor) *AttachmentStore {
	return &AttachmentStore{
		validator: validator,
		processor: processor,
	}
}

// Add валидирует пакет файлов целиком и запускает обработку каждого.
// При ошибке валидации ни один файл из пакета не принимается.
func (s *AttachmentStore) Add(ctx context.Context, files []FileInput) error {
	s.mu.Lock()
	existing := len(s.entries)
	s.mu.Unlock()

	metas := make([]FileMeta, 0, len(files))
	for _, f := range files {
		metas = append(metas, FileMeta{Name: f.Name, MimeType: f.MimeType, Size: int64(len(f.Data))})
	}
	if err := s.validator.Validate(metas, existing); err != nil {
		return err
	}

	for _, f := range files {
		task := s.processor.Process(ctx, f)

		s.mu.Lock()
		s.entries = append(s.entries, task.Snapshot())
		s.mu.Unlock()

		s.wg.Add(1)
		go s.track(task)
	}
	return nil
}

func (s *AttachmentStore) track(task *ProcessingTask) {
	defer s.wg.Done()

	for info := range task.Events() {
		progress := info
		s.update(task.ID(), func(att *models.Attachment) {
			att.Progress = &progress
		})
	}

	result := task.Wait()
	s.update(task.ID(), func(att *models.Attachment) {
		*att = *result
	})
}

func (s *AttachmentStore) update(id string, fn func(*models.Attachment)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			fn(&s.entries[i])
			return
		}
	}
}

// Remove удаляет вложение и освобождает его превью
func (s *AttachmentStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].ReleasePreview()
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (s *AttachmentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		s.entries[i].ReleasePreview()
	}
	s.entries = nil
}

// List возвращает копию всех вложений в порядке добавления
func (s *AttachmentStore) List() []models.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Attachment, len(s.entries))
	copy(out, s.entries)
	return out
}

// Ready возвращает только вложения в терминальном успешном состоянии
func (s *AttachmentStore) Ready() []models.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Attachment
	for _, att := range s.entries {
		if att.IsReady() {
			out = append(out, att)
		}
	}
	return out
}

// Wait блокирует до завершения обработки всех добавленных файлов
func (s *AttachmentStore) Wait() {
	s.wg.Wait()
}
