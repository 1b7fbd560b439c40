package controllers

import (
	"net/http"

	"DoctorPortal/pkg/logger"
	ws "DoctorPortal/websocket"

	"github.com/gin-gonic/gin"
)

var wsHub *ws.Hub

func SetWebSocketHub(hub *ws.Hub) {
	wsHub = hub
}

// AdminEventFeed подключает админ-панель к ленте событий.
// Токен уже проверен middleware.
func AdminEventFeed(c *gin.Context) {
	email := c.GetString("admin_email")
	if err := ws.Serve(wsHub, c.Writer, c.Request, email); err != nil {
		logger.Get().WithError(err).Error("websocket upgrade failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not establish websocket connection"})
	}
}
