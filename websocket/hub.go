package websocket

import (
	"encoding/json"
	"sync"

	"DoctorPortal/pkg/logger"
)

// Event — одно событие админ-ленты (новый вопрос, отправленный ответ)
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub рассылает события всем подключенным админ-клиентам
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	events     chan Event

	mu sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan Event, 64),
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast ставит событие в очередь рассылки. Не блокирует вызывающего.
func (h *Hub) Broadcast(event string, payload interface{}) {
	select {
	case h.events <- Event{Type: event, Payload: payload}:
	default:
		logger.Get().Warn("websocket event queue full, dropping event")
	}
}

// Run обрабатывает регистрацию клиентов и рассылку событий
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Get().Infof("websocket client connected: %s", client.AdminEmail)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.events:
			data, err := json.Marshal(event)
			if err != nil {
				logger.Get().WithError(err).Error("failed to marshal websocket event")
				continue
			}

			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// клиент не читает, отключаем
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}
