package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"DoctorPortal/models"
)

// Upload — вложение запроса к ассистенту. Закрытый набор реализаций:
// TextUpload, ImageUpload, AudioUpload.
type Upload interface {
	payload() uploadPayload
}

// uploadPayload — wire-формат вложения для сервиса предсказаний
type uploadPayload struct {
	Data string `json:"data"`
	Type string `json:"type"`
	Name string `json:"name"`
	Mime string `json:"mime"`
}

const (
	uploadKindFile  = "file"
	uploadKindAudio = "audio"
)

// TextUpload — заранее извлеченный текст документа
type TextUpload struct {
	Name string
	Text string
}

func (u TextUpload) payload() uploadPayload {
	return uploadPayload{
		Data: "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte(u.Text)),
		Type: uploadKindFile,
		Name: u.Name,
		Mime: "text/plain",
	}
}

// ImageUpload — изображение, передается как data-URL
type ImageUpload struct {
	Name string
	Mime string
	Data []byte
}

func (u ImageUpload) payload() uploadPayload {
	return uploadPayload{
		Data: "data:" + u.Mime + ";base64," + base64.StdEncoding.EncodeToString(u.Data),
		Type: uploadKindFile,
		Name: u.Name,
		Mime: u.Mime,
	}
}

// AudioUpload — голосовая запись
type AudioUpload struct {
	Name string
	Mime string
	Data []byte
}

func (u AudioUpload) payload() uploadPayload {
	return uploadPayload{
		Data: "data:" + u.Mime + ";base64," + base64.StdEncoding.EncodeToString(u.Data),
		Type: uploadKindAudio,
		Name: u.Name,
		Mime: u.Mime,
	}
}

type predictionRequest struct {
	Question       string `json:"question"`
	OverrideConfig struct {
		SessionID string `json:"sessionId"`
	} `json:"overrideConfig"`
	Uploads []uploadPayload `json:"uploads,omitempty"`
}

type predictionResponse struct {
	Text      string `json:"text"`
	SessionID string `json:"sessionId"`
}

// Prediction — ответ ассистента. SessionID заполняется, если сервис
// вернул собственный идентификатор сессии.
type Prediction struct {
	Text      string
	SessionID string
}

// ServiceUnavailableError — временная недоступность сервиса ассистента
type ServiceUnavailableError struct {
	Status int
}

func (e *ServiceUnavailableError) Error() string {
	switch e.Status {
	case http.StatusBadGateway:
		return "AI service is restarting, please try again in a moment"
	case http.StatusServiceUnavailable:
		return "AI service is temporarily unavailable, please try again later"
	case http.StatusGatewayTimeout:
		return "AI service took too long to respond, please try again"
	default:
		return fmt.Sprintf("AI service unavailable (status %d)", e.Status)
	}
}

// ErrMalformedResponse — сервис ответил 200, но без текста ответа
var ErrMalformedResponse = errors.New("AI service returned a malformed response")

// AIPredictor — контракт для чата и формы вопросов; в тестах подменяется
type AIPredictor interface {
	Predict(ctx context.Context, question, sessionID string, uploads []Upload) (*Prediction, error)
	CheckHealth(ctx context.Context) bool
}

// AIClient ходит в HTTP-эндпоинт предсказаний ассистента
type AIClient struct {
	Endpoint string
	Client   *http.Client
}

func NewAIClient(endpoint string) *AIClient {
	return &AIClient{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Predict отправляет вопрос вместе с вложениями. Текст, извлеченный из
// документов, должен быть заранее вложен в question вызывающей стороной.
func (c *AIClient) Predict(ctx context.Context, question, sessionID string, uploads []Upload) (*Prediction, error) {
	reqBody := predictionRequest{Question: question}
	reqBody.OverrideConfig.SessionID = sessionID
	for _, u := range uploads {
		reqBody.Uploads = append(reqBody.Uploads, u.payload())
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send prediction request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, &ServiceUnavailableError{Status: resp.StatusCode}
	default:
		return nil, fmt.Errorf("AI service returned status %d", resp.StatusCode)
	}

	var body predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, ErrMalformedResponse
	}
	if body.Text == "" {
		return nil, ErrMalformedResponse
	}

	return &Prediction{Text: body.Text, SessionID: body.SessionID}, nil
}

// CheckHealth делает пробный GET на эндпоинт с коротким таймаутом.
// Любой HTTP-ответ считается признаком живого сервиса.
func (c *AIClient) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		return false
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// FoldExtractedText добавляет к вопросу текст, извлеченный из документов
func FoldExtractedText(question string, atts []models.Attachment) string {
	out := question
	for _, a := range atts {
		if a.ExtractedText == "" {
			continue
		}
		out += fmt.Sprintf("\n\n--- Content from %s ---\n%s", a.FileName, a.ExtractedText)
	}
	return out
}
