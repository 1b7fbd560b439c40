package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	log  *logrus.Logger
	once sync.Once
)

// Init настраивает глобальный логгер: JSON в файл с ротацией плюс stdout
func Init(logPath string) {
	once.Do(func() {
		log = logrus.New()
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})

		if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
			log.SetLevel(level)
		} else {
			log.SetLevel(logrus.InfoLevel)
		}

		if logPath != "" {
			rotator := &lumberjack.Logger{
				Filename:   logPath,
				MaxSize:    50, // MB
				MaxBackups: 5,
				MaxAge:     30, // days
				Compress:   true,
			}
			log.SetOutput(io.MultiWriter(os.Stdout, rotator))
		} else {
			log.SetOutput(os.Stdout)
		}
	})
}

// Get возвращает глобальный логгер, при необходимости инициализируя его
func Get() *logrus.Logger {
	if log == nil {
		Init(os.Getenv("LOG_FILE"))
	}
	return log
}
