package services

import (
	"fmt"
	"strings"
)

// FileMeta — метаданные файла-кандидата до начала обработки
type FileMeta struct {
	Name     string
	MimeType string
	Size     int64
}

// FileConfig — лимиты для загрузки файлов
type FileConfig struct {
	MaxFiles     int
	MaxFileSize  int64
	AllowedTypes []string
}

// DefaultFileConfig возвращает лимиты по умолчанию: 15 файлов по 10MB,
// изображения, PDF и офисные документы
func DefaultFileConfig() FileConfig {
	return FileConfig{
		MaxFiles:    15,
		MaxFileSize: 10 * 1024 * 1024,
		AllowedTypes: []string{
			"image/",
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"text/plain",
		},
	}
}

type UploadValidator struct {
	Config FileConfig
}

func NewUploadValidator(config FileConfig) *UploadValidator {
	return &UploadValidator{Config: config}
}

// Validate проверяет пакет файлов целиком: количество, размер, тип.
// Первое нарушение отклоняет весь пакет — частичный прием не допускается.
func (v *UploadValidator) Validate(files []FileMeta, existingCount int) error {
	if existingCount+len(files) > v.Config.MaxFiles {
		return fmt.Errorf("too many files: maximum is %d", v.Config.MaxFiles)
	}

	for _, file := range files {
		if file.Size > v.Config.MaxFileSize {
			return fmt.Errorf("file %q exceeds the %dMB size limit", file.Name, v.Config.MaxFileSize/(1024*1024))
		}
	}

	for _, file := range files {
		if !v.typeAllowed(file.MimeType) {
			return fmt.Errorf("file type %q is not supported", file.MimeType)
		}
	}

	return nil
}

func (v *UploadValidator) typeAllowed(mimeType string) bool {
	for _, allowed := range v.Config.AllowedTypes {
		if strings.HasSuffix(allowed, "/") {
			if strings.HasPrefix(mimeType, allowed) {
				return true
			}
		} else if mimeType == allowed {
			return true
		}
	}
	return false
}
