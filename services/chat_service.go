package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"DoctorPortal/models"
	"DoctorPortal/pkg/logger"
	"DoctorPortal/repositories"
)

const sessionPreviewLimit = 50

// ChatService ведет одну беседу клиента с ассистентом: хранит текущую
// ленту сообщений, подгружает историю и переключает сессии
type ChatService struct {
	mu        sync.Mutex
	store     SessionStore
	repo      repositories.ChatRepository
	ai        AIPredictor
	messages  []models.Message
	loadedFor string
	onError   []func(error)
}

func NewChatService(store SessionStore, repo repositories.ChatRepository, ai AIPredictor) *ChatService {
	return &ChatService{
		store: store,
		repo:  repo,
		ai:    ai,
	}
}

// OnError регистрирует обработчик ошибок ассистента
func (s *ChatService) OnError(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = append(s.onError, fn)
}

func (s *ChatService) notifyError(err error) {
	s.mu.Lock()
	handlers := make([]func(error), len(s.onError))
	copy(handlers, s.onError)
	s.mu.Unlock()
	for _, fn := range handlers {
		fn(err)
	}
}

// CurrentSession возвращает идентификатор текущей сессии,
// создавая новый только если его еще нет
func (s *ChatService) CurrentSession() string {
	if id := s.store.Get(); id != "" {
		return id
	}
	id := newSessionID("session")
	s.store.Set(id)
	return id
}

func newSessionID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixMilli(), rand.Intn(1_000_000))
}

// LoadHistory восстанавливает ленту сообщений из сохраненных обменов.
// Повторный вызов для уже загруженной сессии ничего не делает.
// Сбой чтения истории оставляет ленту пустой и не считается ошибкой.
func (s *ChatService) LoadHistory(ctx context.Context) error {
	sessionID := s.CurrentSession()

	s.mu.Lock()
	if s.loadedFor == sessionID {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	rows, err := s.repo.FindBySession(sessionID)
	if err != nil {
		// недоступная история не блокирует чат: начинаем с пустой ленты,
		// loadedFor не ставим, чтобы следующий вызов повторил загрузку
		logger.Get().WithError(err).Error("failed to load chat history")
		s.mu.Lock()
		s.messages = nil
		s.mu.Unlock()
		return nil
	}

	messages := make([]models.Message, 0, len(rows)*2)
	for _, row := range rows {
		messages = append(messages,
			models.Message{Type: models.MessageTypeUser, Content: row.UserMessage, Timestamp: row.CreatedAt, Read: true},
			models.Message{Type: models.MessageTypeBot, Content: row.AIResponse, Timestamp: row.CreatedAt, Read: true},
		)
	}

	s.mu.Lock()
	s.messages = messages
	s.loadedFor = sessionID
	s.mu.Unlock()
	return nil
}

// Send отправляет сообщение ассистенту. Текст документов вкладывается в
// вопрос, изображения и аудио уходят отдельными вложениями.
func (s *ChatService) Send(ctx context.Context, text string, atts []models.Attachment) (*models.Message, error) {
	sessionID := s.CurrentSession()

	userMsg := models.Message{
		Type:        models.MessageTypeUser,
		Content:     text,
		Timestamp:   time.Now(),
		Read:        true,
		Attachments: atts,
	}
	s.mu.Lock()
	s.messages = append(s.messages, userMsg)
	s.mu.Unlock()

	question := FoldExtractedText(text, atts)
	uploads := buildUploads(atts)

	prediction, err := s.ai.Predict(ctx, question, sessionID, uploads)
	if err != nil {
		s.notifyError(err)
		return nil, err
	}

	if prediction.SessionID != "" && prediction.SessionID != sessionID {
		s.store.Set(prediction.SessionID)
		sessionID = prediction.SessionID
	}

	botMsg := models.Message{
		Type:      models.MessageTypeBot,
		Content:   prediction.Text,
		Timestamp: time.Now(),
	}
	s.mu.Lock()
	s.messages = append(s.messages, botMsg)
	s.loadedFor = sessionID
	s.mu.Unlock()

	if err := s.repo.SaveExchange(&models.ChatHistory{
		SessionID:   sessionID,
		UserMessage: text,
		AIResponse:  prediction.Text,
	}); err != nil {
		// сообщение уже показано, потеря строки истории не фатальна
		logger.Get().WithError(err).Error("failed to persist chat exchange")
	}

	return &botMsg, nil
}

// Messages возвращает копию текущей ленты
func (s *ChatService) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Sessions возвращает все сессии, свежие первыми. Превью — начало
// первого сообщения пользователя в сессии.
func (s *ChatService) Sessions(ctx context.Context) ([]models.ChatSession, error) {
	rows, err := s.repo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}

	seen := make(map[string]int)
	var sessions []models.ChatSession
	for _, row := range rows {
		if idx, ok := seen[row.SessionID]; ok {
			// строки отсортированы по убыванию, первая строка сессии —
			// самый свежий обмен, а превью берем из самого раннего
			sessions[idx].Preview = previewOf(row.UserMessage)
			continue
		}
		seen[row.SessionID] = len(sessions)
		sessions = append(sessions, models.ChatSession{
			ID:        row.SessionID,
			Timestamp: row.CreatedAt,
			Preview:   previewOf(row.UserMessage),
		})
	}
	return sessions, nil
}

func previewOf(text string) string {
	text = strings.TrimSpace(text)
	// обрезаем по рунам, не по байтам: грузинский и русский текст
	// нельзя резать посреди символа
	runes := []rune(text)
	if len(runes) <= sessionPreviewLimit {
		return text
	}
	return string(runes[:sessionPreviewLimit]) + "..."
}

// Switch переключается на другую сессию и загружает ее историю
func (s *ChatService) Switch(ctx context.Context, sessionID string) error {
	s.store.Set(sessionID)
	s.mu.Lock()
	s.loadedFor = ""
	s.messages = nil
	s.mu.Unlock()
	return s.LoadHistory(ctx)
}

// Delete удаляет сессию. Если удалена текущая, лента очищается,
// но идентификатор сессии сохраняется.
func (s *ChatService) Delete(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("delete chat session: %w", err)
	}
	if s.store.Get() == sessionID {
		s.mu.Lock()
		s.messages = nil
		s.loadedFor = ""
		s.mu.Unlock()
	}
	return nil
}

// New начинает новую пустую беседу
func (s *ChatService) New() string {
	id := newSessionID("session")
	s.store.Set(id)
	s.mu.Lock()
	s.messages = nil
	s.loadedFor = id
	s.mu.Unlock()
	return id
}

// buildUploads переводит вложения в элементы запроса: изображения и аудио
// уходят отдельными вложениями, текст документов вложен в вопрос
func buildUploads(atts []models.Attachment) []Upload {
	var uploads []Upload
	for _, a := range atts {
		switch {
		case a.UploadType == models.UploadTypeImage:
			uploads = append(uploads, ImageUpload{Name: a.FileName, Mime: a.MimeType, Data: a.Data})
		case strings.HasPrefix(a.MimeType, "audio/"):
			uploads = append(uploads, AudioUpload{Name: a.FileName, Mime: a.MimeType, Data: a.Data})
		}
	}
	return uploads
}
