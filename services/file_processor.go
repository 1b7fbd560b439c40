package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"DoctorPortal/models"
	"DoctorPortal/pkg/logger"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

// FileInput — сырой файл на входе обработчика
type FileInput struct {
	Name     string
	MimeType string
	Data     []byte
}

// PDFDocument абстрагирует постраничное извлечение текста,
// чтобы в тестах можно было подменить реальный парсер
type PDFDocument interface {
	PageCount() int
	ExtractPage(page int, method string) (string, error)
}

type PDFOpener func(data []byte) (PDFDocument, error)

// ProcessingTask — одна асинхронная задача обработки файла.
// События прогресса читаются из Events, результат — через Wait.
type ProcessingTask struct {
	id      string
	initial models.Attachment
	events  chan models.ProgressInfo
	done    chan struct{}
	result  *models.Attachment
}

func (t *ProcessingTask) ID() string {
	return t.id
}

// Snapshot возвращает начальное состояние вложения (status = processing)
func (t *ProcessingTask) Snapshot() models.Attachment {
	return t.initial
}

func (t *ProcessingTask) Events() <-chan models.ProgressInfo {
	return t.events
}

// Wait блокирует до терминального состояния (ready или error)
func (t *ProcessingTask) Wait() *models.Attachment {
	<-t.done
	return t.result
}

type FileProcessor struct {
	OpenPDF       PDFOpener
	ThumbnailSize int
}

func NewFileProcessor() *FileProcessor {
	return &FileProcessor{
		OpenPDF:       openPDF,
		ThumbnailSize: 160,
	}
}

// Process запускает обработку одного файла и сразу возвращает задачу.
// Для изображений превью генерируется синхронно, до завершения обработки.
func (p *FileProcessor) Process(ctx context.Context, in FileInput) *ProcessingTask {
	att := models.Attachment{
		ID:         uuid.NewString(),
		FileName:   in.Name,
		MimeType:   in.MimeType,
		Size:       int64(len(in.Data)),
		Data:       in.Data,
		UploadType: models.UploadTypeFor(in.MimeType),
		Status:     models.AttachmentProcessing,
		Progress: &models.ProgressInfo{
			Stage:            models.StageAnalyzing,
			StageDescription: "Starting upload...",
		},
	}

	if att.UploadType == models.UploadTypeImage {
		preview, err := p.makePreview(in.Data)
		if err == nil {
			att.Preview = preview
		}
	}

	task := &ProcessingTask{
		id:      att.ID,
		initial: att,
		events:  make(chan models.ProgressInfo, 64),
		done:    make(chan struct{}),
	}

	go p.run(ctx, task, att)
	return task
}

func (p *FileProcessor) run(ctx context.Context, task *ProcessingTask, att models.Attachment) {
	defer func() {
		close(task.events)
		close(task.done)
	}()

	switch att.UploadType {
	case models.UploadTypeImage:
		p.finishImage(task, &att)
	case models.UploadTypePDF:
		p.extractPDF(ctx, task, &att)
	default:
		p.finishDocument(task, &att)
	}

	task.result = &att
}

func (p *FileProcessor) finishImage(task *ProcessingTask, att *models.Attachment) {
	if att.Preview == "" {
		att.Status = models.AttachmentError
		att.Error = "could not decode image"
		p.emit(task, models.ProgressInfo{Stage: models.StageFailed, StageDescription: att.Error, Percentage: 100})
		return
	}

	p.emit(task, models.ProgressInfo{Stage: models.StagePreview, StageDescription: "Preview generated", Percentage: 60})

	att.Status = models.AttachmentReady
	att.Progress = nil
	p.emit(task, models.ProgressInfo{Stage: models.StageComplete, StageDescription: "Image ready", Percentage: 100})
}

func (p *FileProcessor) finishDocument(task *ProcessingTask, att *models.Attachment) {
	att.Status = models.AttachmentReady
	att.Progress = nil
	p.emit(task, models.ProgressInfo{Stage: models.StageComplete, StageDescription: "Document attached", Percentage: 100})
}

// extractPDF извлекает текст постранично. Для каждой страницы сначала
// пробуется основной метод, при неудаче — резервный. Частичный успех
// (часть страниц без текста) все равно дает статус ready.
func (p *FileProcessor) extractPDF(ctx context.Context, task *ProcessingTask, att *models.Attachment) {
	doc, err := p.OpenPDF(att.Data)
	if err != nil {
		att.Status = models.AttachmentError
		att.Error = fmt.Sprintf("could not open PDF: %v", err)
		p.emit(task, models.ProgressInfo{Stage: models.StageFailed, StageDescription: att.Error, Percentage: 100})
		return
	}

	total := doc.PageCount()
	att.PdfPageCount = total

	var pages []string
	overallMethod := models.ExtractionPrimary
	extracted := 0

	for page := 1; page <= total; page++ {
		select {
		case <-ctx.Done():
			att.Status = models.AttachmentError
			att.Error = "processing canceled"
			return
		default:
		}

		method := models.ExtractionPrimary
		text, extractErr := doc.ExtractPage(page, models.ExtractionPrimary)
		if extractErr != nil || strings.TrimSpace(text) == "" {
			method = models.ExtractionFallback
			text, extractErr = doc.ExtractPage(page, models.ExtractionFallback)
		}

		if extractErr == nil && strings.TrimSpace(text) != "" {
			pages = append(pages, text)
			extracted++
			if method == models.ExtractionFallback {
				overallMethod = models.ExtractionFallback
			}
		} else {
			logger.Get().Warnf("pdf %s: page %d/%d yielded no text", att.FileName, page, total)
		}

		p.emit(task, models.ProgressInfo{
			Stage:            models.StageExtracting,
			StageDescription: fmt.Sprintf("Extracting text from page %d of %d", page, total),
			Percentage:       page * 100 / total,
			CurrentPage:      page,
			TotalPages:       total,
			Method:           method,
		})
	}

	if extracted == 0 {
		att.Status = models.AttachmentError
		att.Error = "could not extract text from any page"
		p.emit(task, models.ProgressInfo{Stage: models.StageFailed, StageDescription: att.Error, Percentage: 100})
		return
	}

	att.ExtractedText = strings.Join(pages, "\n")
	att.Status = models.AttachmentReady
	att.Progress = &models.ProgressInfo{Stage: models.StageComplete, Percentage: 100, TotalPages: total, Method: overallMethod}
	p.emit(task, models.ProgressInfo{
		Stage:            models.StageComplete,
		StageDescription: fmt.Sprintf("Extracted %d of %d pages", extracted, total),
		Percentage:       100,
		TotalPages:       total,
		Method:           overallMethod,
	})
}

// emit не блокирует: если потребитель отстал, событие прогресса теряется
func (p *FileProcessor) emit(task *ProcessingTask, info models.ProgressInfo) {
	select {
	case task.events <- info:
	default:
	}
}

func (p *FileProcessor) makePreview(data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	size := p.ThumbnailSize
	if size <= 0 {
		size = 160
	}
	thumb := imaging.Thumbnail(img, size, size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return "", err
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// pdfDocument — реальная реализация поверх ledongthuc/pdf
type pdfDocument struct {
	reader *pdf.Reader
}

func openPDF(data []byte) (PDFDocument, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &pdfDocument{reader: reader}, nil
}

func (d *pdfDocument) PageCount() int {
	return d.reader.NumPage()
}

// ExtractPage извлекает текст одной страницы. Библиотека местами паникует
// на битых файлах, поэтому паника переводится в ошибку.
func (d *pdfDocument) ExtractPage(page int, method string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser failure: %v", r)
		}
	}()

	p := d.reader.Page(page)
	if p.V.IsNull() {
		return "", errors.New("page not found")
	}

	if method == models.ExtractionPrimary {
		return p.GetPlainText(nil)
	}

	rows, err := p.GetTextByRow()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, row := range rows {
		for _, word := range row.Content {
			sb.WriteString(word.S)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
