package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"DoctorPortal/models"
	"DoctorPortal/pkg/logger"
	"DoctorPortal/repositories"

	"github.com/google/uuid"
)

// EventBroadcaster рассылает события админ-панели (websocket)
type EventBroadcaster interface {
	Broadcast(event string, payload interface{})
}

var ErrQuestionNotFound = errors.New("question not found")
var ErrAttachmentNotFound = errors.New("attachment not found")

// SubmitQuestionInput — заполненная форма «вопрос врачу».
// Attachments должны быть в терминальном состоянии (обработка завершена).
type SubmitQuestionInput struct {
	Name        string
	Email       string
	Phone       string
	Question    string
	Attachments []models.Attachment
}

// QuestionService реализует сценарии формы вопросов и админ-панели
type QuestionService struct {
	repo        repositories.QuestionRepository
	storage     ObjectStorage
	ai          AIPredictor
	notifier    WebhookNotifier
	broadcaster EventBroadcaster
	signedTTL   time.Duration
}

func NewQuestionService(repo repositories.QuestionRepository, storage ObjectStorage, ai AIPredictor, notifier WebhookNotifier, broadcaster EventBroadcaster) *QuestionService {
	return &QuestionService{
		repo:        repo,
		storage:     storage,
		ai:          ai,
		notifier:    notifier,
		broadcaster: broadcaster,
		signedTTL:   time.Hour,
	}
}

// Submit сохраняет вопрос пациента. AI-ответ запрашивается до сохранения,
// но его сбой не блокирует прием вопроса. Файлы загружаются в хранилище
// по одному; неудачные загрузки записываются со статусом failed.
func (s *QuestionService) Submit(ctx context.Context, in SubmitQuestionInput) (*models.DoctorQuestion, error) {
	q := &models.DoctorQuestion{
		ID:       uuid.NewString(),
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Question: in.Question,
	}

	var ready []models.Attachment
	for _, att := range in.Attachments {
		if att.IsReady() {
			ready = append(ready, att)
		}
	}

	if s.ai != nil {
		sessionID := newSessionID("askdoctor")
		folded := FoldExtractedText(in.Question, ready)
		prediction, err := s.ai.Predict(ctx, folded, sessionID, buildUploads(ready))
		if err != nil {
			logger.Get().WithError(err).Warn("AI response unavailable for question submission")
		} else {
			now := time.Now()
			q.AIResponse = prediction.Text
			q.AIResponseAt = &now
		}
	}

	if err := s.repo.Save(q); err != nil {
		return nil, fmt.Errorf("save question: %w", err)
	}

	for _, att := range in.Attachments {
		record := models.QuestionAttachment{
			ID:               uuid.NewString(),
			QuestionID:       q.ID,
			FileName:         att.FileName,
			FileType:         att.MimeType,
			FileSize:         att.Size,
			ExtractedText:    att.ExtractedText,
			PdfPageCount:     att.PdfPageCount,
			ExtractionMethod: extractionMethodOf(att),
		}

		if !att.IsReady() {
			// файл не прошел обработку, фиксируем сбой без загрузки
			record.UploadStatus = models.UploadStatusFailed
			record.ErrorMessage = att.Error
			if record.ErrorMessage == "" {
				record.ErrorMessage = "file processing failed"
			}
		} else {
			objectPath := ObjectPathFor(q.ID, att.FileName)
			if err := s.storage.Upload(ctx, objectPath, att.MimeType, att.Data); err != nil {
				logger.Get().WithError(err).Errorf("upload failed for %s", att.FileName)
				record.UploadStatus = models.UploadStatusFailed
				record.ErrorMessage = err.Error()
			} else {
				record.UploadStatus = models.UploadStatusSuccess
				record.FilePath = objectPath
			}
		}

		if err := s.repo.SaveAttachment(&record); err != nil {
			logger.Get().WithError(err).Errorf("failed to record attachment %s", att.FileName)
			continue
		}
		q.Attachments = append(q.Attachments, record)
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast("question.created", q)
	}
	return q, nil
}

func extractionMethodOf(att models.Attachment) string {
	if att.Progress != nil {
		return att.Progress.Method
	}
	return ""
}

// List возвращает вопросы, свежие первыми. Фильтр по статусу и поиск
// по имени, почте и тексту применяются вместе.
func (s *QuestionService) List(filter, search string) ([]models.DoctorQuestion, error) {
	questions, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	search = strings.ToLower(strings.TrimSpace(search))
	var out []models.DoctorQuestion
	for _, q := range questions {
		switch filter {
		case "answered":
			if !q.Answered {
				continue
			}
		case "pending", "unanswered":
			if q.Answered {
				continue
			}
		}

		if search != "" {
			haystack := strings.ToLower(q.Name + " " + q.Email + " " + q.Question)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *QuestionService) Get(id string) (models.DoctorQuestion, error) {
	q, err := s.repo.FindByID(id)
	if err != nil {
		return models.DoctorQuestion{}, ErrQuestionNotFound
	}
	return q, nil
}

// ToggleAnswered переключает статус «отвечен». Отметка времени ставится
// при включении и снимается при выключении.
func (s *QuestionService) ToggleAnswered(id string) (*models.DoctorQuestion, error) {
	q, err := s.repo.FindByID(id)
	if err != nil {
		return nil, ErrQuestionNotFound
	}

	q.Answered = !q.Answered
	fields := map[string]interface{}{"answered": q.Answered}
	if q.Answered {
		now := time.Now()
		q.AnsweredAt = &now
		fields["answered_at"] = now
	} else {
		q.AnsweredAt = nil
		fields["answered_at"] = nil
	}

	if err := s.repo.UpdateFields(id, fields); err != nil {
		return nil, fmt.Errorf("update answered status: %w", err)
	}
	return &q, nil
}

// SendResponse отправляет ответ врача пациенту. Сначала доставка через
// webhook, и только после успеха — запись в базу: вопрос не должен
// числиться отвеченным, если письмо не ушло.
func (s *QuestionService) SendResponse(ctx context.Context, id, responseText string) (*models.DoctorQuestion, error) {
	q, err := s.repo.FindByID(id)
	if err != nil {
		return nil, ErrQuestionNotFound
	}

	email := ResponseEmail{
		Name:       q.Name,
		Email:      q.Email,
		Phone:      q.Phone,
		Question:   q.Question,
		Response:   responseText,
		AIResponse: q.AIResponse,
	}
	html, err := BuildResponseHTML(email)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.NotifyResponse(ctx, email, html); err != nil {
		return nil, fmt.Errorf("deliver response: %w", err)
	}

	now := time.Now()
	fields := map[string]interface{}{
		"response":         responseText,
		"answered":         true,
		"answered_at":      now,
		"response_sent":    true,
		"response_sent_at": now,
	}
	if err := s.repo.UpdateFields(id, fields); err != nil {
		return nil, fmt.Errorf("record sent response: %w", err)
	}

	q.Response = responseText
	q.Answered = true
	q.AnsweredAt = &now
	q.ResponseSent = true
	q.ResponseSentAt = &now

	if s.broadcaster != nil {
		s.broadcaster.Broadcast("question.responded", &q)
	}
	return &q, nil
}

// Delete удаляет вопрос вместе с файлами. Сбои удаления из хранилища
// не блокируют удаление записи и возвращаются как предупреждения.
func (s *QuestionService) Delete(ctx context.Context, id string) ([]string, error) {
	q, err := s.repo.FindByID(id)
	if err != nil {
		return nil, ErrQuestionNotFound
	}

	var warnings []string
	for _, att := range q.Attachments {
		if att.FilePath == "" {
			continue
		}
		if err := s.storage.Remove(ctx, att.FilePath); err != nil {
			logger.Get().WithError(err).Warnf("could not remove stored file %s", att.FilePath)
			warnings = append(warnings, fmt.Sprintf("could not remove %s", att.FileName))
		}
	}

	if err := s.repo.Delete(id); err != nil {
		return warnings, fmt.Errorf("delete question: %w", err)
	}
	return warnings, nil
}

// Transcript собирает PDF-выписку по вопросу
func (s *QuestionService) Transcript(id string) ([]byte, error) {
	q, err := s.repo.FindByID(id)
	if err != nil {
		return nil, ErrQuestionNotFound
	}
	return BuildQuestionTranscript(q)
}

// SignedDownloadURL выдает временную ссылку на скачивание файла вопроса
func (s *QuestionService) SignedDownloadURL(questionID, attachmentID string) (string, error) {
	q, err := s.repo.FindByID(questionID)
	if err != nil {
		return "", ErrQuestionNotFound
	}

	for _, att := range q.Attachments {
		if att.ID == attachmentID {
			if att.FilePath == "" || att.UploadStatus != models.UploadStatusSuccess {
				return "", fmt.Errorf("attachment %s was not uploaded", att.FileName)
			}
			return s.storage.SignedURL(att.FilePath, s.signedTTL)
		}
	}
	return "", ErrAttachmentNotFound
}
