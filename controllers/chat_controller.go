package controllers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"DoctorPortal/models"
	"DoctorPortal/repositories"
	"DoctorPortal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const chatClientCookie = "chat_client_id"

var chatRepo repositories.ChatRepository
var chatAI services.AIPredictor

// chatEntry — ChatService одного клиента с отметкой последней активности
type chatEntry struct {
	svc      *services.ChatService
	lastSeen time.Time
}

var chatMu sync.Mutex
var chatManagers = make(map[string]*chatEntry)
var chatManagerTTL = 24 * time.Hour

func SetChatDependencies(repo repositories.ChatRepository, ai services.AIPredictor) {
	chatRepo = repo
	chatAI = ai
}

// chatFor возвращает ChatService клиента, идентифицируя его по cookie.
// Неактивные записи вытесняются, история при этом остается в базе.
func chatFor(c *gin.Context) *services.ChatService {
	clientID, err := c.Cookie(chatClientCookie)
	if err != nil || clientID == "" {
		clientID = uuid.NewString()
		c.SetCookie(chatClientCookie, clientID, 60*60*24*365, "/", "", false, true)
	}

	chatMu.Lock()
	defer chatMu.Unlock()

	now := time.Now()
	for id, entry := range chatManagers {
		if now.Sub(entry.lastSeen) > chatManagerTTL {
			delete(chatManagers, id)
		}
	}

	if entry, ok := chatManagers[clientID]; ok {
		entry.lastSeen = now
		return entry.svc
	}
	svc := services.NewChatService(services.NewMemorySessionStore(), chatRepo, chatAI)
	chatManagers[clientID] = &chatEntry{svc: svc, lastSeen: now}
	return svc
}

// ChatMessages возвращает ленту текущей сессии, подгружая историю
func ChatMessages(c *gin.Context) {
	chat := chatFor(c)
	if err := chat.LoadHistory(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": chat.CurrentSession(),
		"messages":   chat.Messages(),
	})
}

// SendChatMessage отправляет сообщение ассистенту. Принимает multipart
// с полем message и файлами; обработка файлов завершается до отправки.
func SendChatMessage(c *gin.Context) {
	var input struct {
		Message string `form:"message" binding:"required"`
	}
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var attachments []models.Attachment
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files, err := readUploads(form.File["files"])
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(files) > 0 {
			store := services.NewAttachmentStore(uploadValidator, fileProcessor)
			if err := store.Add(c.Request.Context(), files); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			store.Wait()
			attachments = store.Ready()
		}
	}

	chat := chatFor(c)
	reply, err := chat.Send(c.Request.Context(), input.Message, attachments)
	if err != nil {
		var unavailable *services.ServiceUnavailableError
		switch {
		case errors.As(err, &unavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": unavailable.Error()})
		case errors.Is(err, services.ErrMalformedResponse):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not reach the AI assistant"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": chat.CurrentSession(),
		"message":    reply,
	})
}

// ChatSessions возвращает список сессий для панели истории
func ChatSessions(c *gin.Context) {
	sessions, err := chatFor(c).Sessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// NewChatSession начинает новую пустую беседу
func NewChatSession(c *gin.Context) {
	id := chatFor(c).New()
	c.JSON(http.StatusOK, gin.H{"session_id": id})
}

// SwitchChatSession переключается на выбранную сессию
func SwitchChatSession(c *gin.Context) {
	chat := chatFor(c)
	if err := chat.Switch(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": chat.CurrentSession(),
		"messages":   chat.Messages(),
	})
}

// DeleteChatSession удаляет сессию и ее историю
func DeleteChatSession(c *gin.Context) {
	if err := chatFor(c).Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ChatHealth сообщает, доступен ли сервис ассистента
func ChatHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"available": chatAI.CheckHealth(c.Request.Context())})
}
