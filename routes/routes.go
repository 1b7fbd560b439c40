package routes

import (
	"DoctorPortal/controllers"
	"DoctorPortal/middlewares"
	"DoctorPortal/services"

	"github.com/gin-gonic/gin"
)

// SetupRoutes регистрирует публичные и админские маршруты
func SetupRoutes(r *gin.Engine, auth *services.AuthService) {
	r.Use(middlewares.CORS())

	api := r.Group("/api")
	{
		api.POST("/auth/login", controllers.Login)

		api.POST("/questions", controllers.SubmitQuestion)

		chat := api.Group("/chat")
		{
			chat.GET("/health", controllers.ChatHealth)
			chat.GET("/messages", controllers.ChatMessages)
			chat.POST("/messages", controllers.SendChatMessage)
			chat.GET("/sessions", controllers.ChatSessions)
			chat.POST("/sessions/new", controllers.NewChatSession)
			chat.POST("/sessions/:id/switch", controllers.SwitchChatSession)
			chat.DELETE("/sessions/:id", controllers.DeleteChatSession)
		}

		api.GET("/posts", controllers.ListPublishedPosts)
		api.GET("/posts/:id", controllers.GetPost)
	}

	admin := r.Group("/api/admin")
	admin.Use(middlewares.AdminAuth(auth))
	{
		admin.GET("/questions", controllers.ListQuestions)
		admin.GET("/questions/:id", controllers.GetQuestion)
		admin.PATCH("/questions/:id/answered", controllers.ToggleAnswered)
		admin.POST("/questions/:id/response", controllers.SendResponse)
		admin.DELETE("/questions/:id", controllers.DeleteQuestion)
		admin.GET("/questions/:id/transcript", controllers.QuestionTranscript)
		admin.GET("/questions/:id/attachments/:attachmentId/url", controllers.AttachmentDownloadURL)

		admin.GET("/posts", controllers.ListAllPosts)
		admin.POST("/posts", controllers.CreatePost)
		admin.PUT("/posts/:id", controllers.UpdatePost)
		admin.DELETE("/posts/:id", controllers.DeletePost)

		admin.GET("/events", controllers.AdminEventFeed)
	}
}
