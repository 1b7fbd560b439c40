package config

import (
	"context"
	"fmt"
	"os"

	"DoctorPortal/models"
	"DoctorPortal/pkg/logger"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB
var StorageBucket *storage.BucketHandle
var StorageBucketName string

func InitDatabase() {
	// Получаем значения из environment variables
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	port := os.Getenv("DB_PORT")

	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}

	logger.Get().Infof("connecting to database: host=%s user=%s dbname=%s port=%s sslmode=%s",
		host, user, dbname, port, sslmode)

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Get().Fatalf("failed to connect to database: %v", err)
	}

	logger.Get().Info("successfully connected to database")

	if err := DB.AutoMigrate(
		&models.DoctorQuestion{},
		&models.QuestionAttachment{},
		&models.ChatHistory{},
		&models.Post{},
	); err != nil {
		logger.Get().Fatalf("migration failed: %v", err)
	}
}

func InitFirebase() {
	bucketName := os.Getenv("FIREBASE_STORAGE_BUCKET")
	if bucketName == "" {
		logger.Get().Fatal("FIREBASE_STORAGE_BUCKET must be set")
	}

	opt := option.WithCredentialsFile(os.Getenv("FIREBASE_CREDENTIALS_PATH"))
	app, err := firebase.NewApp(context.Background(), &firebase.Config{
		StorageBucket: bucketName,
	}, opt)
	if err != nil {
		logger.Get().Fatalf("error initializing firebase app: %v", err)
	}

	client, err := app.Storage(context.Background())
	if err != nil {
		logger.Get().Fatalf("error getting storage client: %v", err)
	}

	bucket, err := client.DefaultBucket()
	if err != nil {
		logger.Get().Fatalf("error getting storage bucket: %v", err)
	}

	StorageBucket = bucket
	StorageBucketName = bucketName
}
