package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"DoctorPortal/models"
	"DoctorPortal/services"

	"github.com/gin-gonic/gin"
)

var questionService *services.QuestionService
var uploadValidator *services.UploadValidator
var fileProcessor *services.FileProcessor

func SetQuestionService(service *services.QuestionService) {
	questionService = service
}

func SetUploadPipeline(validator *services.UploadValidator, processor *services.FileProcessor) {
	uploadValidator = validator
	fileProcessor = processor
}

// readUploads читает файлы из multipart-формы в память
func readUploads(files []*multipart.FileHeader) ([]services.FileInput, error) {
	var inputs []services.FileInput
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", header.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", header.Filename, err)
		}
		inputs = append(inputs, services.FileInput{
			Name:     header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return inputs, nil
}

// SubmitQuestion принимает форму «вопрос врачу» с файлами.
// Обработка файлов (извлечение текста) завершается до сохранения вопроса.
func SubmitQuestion(c *gin.Context) {
	var input struct {
		Name     string `form:"name" binding:"required"`
		Email    string `form:"email" binding:"required,email"`
		Phone    string `form:"phone" binding:"omitempty,phone"`
		Question string `form:"question" binding:"required"`
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
			// включая файлы со сбоем обработки: они фиксируются
			// как failed-записи вопроса
			attachments = store.List()
		}
	}

	question, err := questionService.Submit(c.Request.Context(), services.SubmitQuestionInput{
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Question:    input.Question,
		Attachments: attachments,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, question)
}

// ListQuestions — список для админ-панели с фильтром и поиском
func ListQuestions(c *gin.Context) {
	questions, err := questionService.List(c.Query("filter"), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions, "count": len(questions)})
}

func GetQuestion(c *gin.Context) {
	question, err := questionService.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}
	c.JSON(http.StatusOK, question)
}

// ToggleAnswered переключает статус «отвечен»
func ToggleAnswered(c *gin.Context) {
	question, err := questionService.ToggleAnswered(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, question)
}

// SendResponse отправляет ответ врача пациенту
func SendResponse(c *gin.Context) {
	var input struct {
		Response string `json:"response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := questionService.SendResponse(c.Request.Context(), c.Param("id"), input.Response)
	if err != nil {
		if errors.Is(err, services.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, question)
}

// DeleteQuestion удаляет вопрос; проблемы с файлами в хранилище
// возвращаются как предупреждения
func DeleteQuestion(c *gin.Context) {
	warnings, err := questionService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "warnings": warnings})
}

// QuestionTranscript отдает PDF-выписку по вопросу
func QuestionTranscript(c *gin.Context) {
	pdf, err := questionService.Transcript(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=question-%s.pdf", c.Param("id")))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// AttachmentDownloadURL выдает временную ссылку на файл вопроса
func AttachmentDownloadURL(c *gin.Context) {
	url, err := questionService.SignedDownloadURL(c.Param("id"), c.Param("attachmentId"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQuestionNotFound), errors.Is(err, services.ErrAttachmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
