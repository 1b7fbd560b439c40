package main

import (
	"os"
	"regexp"

	"DoctorPortal/config"
	"DoctorPortal/controllers"
	"DoctorPortal/pkg/logger"
	"DoctorPortal/repositories/impl"
	"DoctorPortal/routes"
	"DoctorPortal/services"
	ws "DoctorPortal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{6,19}$`)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Get().Info("no .env file found, using environment variables")
	}
	logger.Init(os.Getenv("LOG_FILE"))

	config.InitDatabase()
	config.InitFirebase()

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
	}

	authService, err := services.NewAuthService()
	if err != nil {
		logger.Get().Fatalf("auth configuration error: %v", err)
	}

	questionRepo := impl.NewQuestionRepository(config.DB)
	chatRepo := impl.NewChatRepository(config.DB)
	postRepo := impl.NewPostRepository(config.DB)

	storage := services.NewFirebaseStorage(config.StorageBucket, config.StorageBucketName)
	aiClient := services.NewAIClient(os.Getenv("AI_ENDPOINT"))
	notifier := services.NewHTTPWebhookNotifier(os.Getenv("EMAIL_WEBHOOK_URL"))

	hub := ws.NewHub()
	go hub.Run()

	validatorSvc := services.NewUploadValidator(services.DefaultFileConfig())
	processor := services.NewFileProcessor()

	questionService := services.NewQuestionService(questionRepo, storage, aiClient, notifier, hub)
	postService := services.NewPostService(postRepo, storage)

	controllers.SetAuthService(authService)
	controllers.SetQuestionService(questionService)
	controllers.SetUploadPipeline(validatorSvc, processor)
	controllers.SetChatDependencies(chatRepo, aiClient)
	controllers.SetPostService(postService)
	controllers.SetWebSocketHub(hub)

	r := gin.Default()
	routes.SetupRoutes(r, authService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Get().Infof("starting server on port %s", port)
	if err := r.Run(":" + port); err != nil {
		logger.Get().Fatalf("server stopped: %v", err)
	}
}
