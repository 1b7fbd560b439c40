package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"DoctorPortal/models"

	"github.com/stretchr/testify/assert"
)

// fakePDF моделирует документ с настраиваемым поведением страниц
type fakePDF struct {
	pages         int
	primaryFails  map[int]bool // страницы, где основной метод не дает текста
	fallbackFails map[int]bool // страницы, где и резервный метод пуст
}

func (f *fakePDF) PageCount() int { return f.pages }

func (f *fakePDF) ExtractPage(page int, method string) (string, error) {
	if method == models.ExtractionPrimary {
		if f.primaryFails[page] {
			return "", errors.New("no text layer")
		}
		return "primary text of page", nil
	}
	if f.fallbackFails[page] {
		return "", errors.New("no rows")
	}
	return "fallback text of page", nil
}

func processorWithFake(doc *fakePDF) *FileProcessor {
	p := NewFileProcessor()
	p.OpenPDF = func(data []byte) (PDFDocument, error) { return doc, nil }
	return p
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcess_ImageGetsPreviewBeforeCompletion(t *testing.T) {
	p := NewFileProcessor()

	task := p.Process(context.Background(), FileInput{
		Name:     "photo.png",
		MimeType: "image/png",
		Data:     pngBytes(t),
	})

	// превью доступно сразу, до завершения обработки
	snapshot := task.Snapshot()
	assert.Equal(t, models.AttachmentProcessing, snapshot.Status)
	assert.True(t, strings.HasPrefix(snapshot.Preview, "data:image/jpeg;base64,"))

	result := task.Wait()
	assert.Equal(t, models.AttachmentReady, result.Status)
}

func TestProcess_ImageEmitsPreviewStage(t *testing.T) {
	p := NewFileProcessor()

	task := p.Process(context.Background(), FileInput{
		Name:     "photo.png",
		MimeType: "image/png",
		Data:     pngBytes(t),
	})

	var stages []models.ProgressStage
	for info := range task.Events() {
		stages = append(stages, info.Stage)
	}
	task.Wait()

	assert.Equal(t, []models.ProgressStage{models.StagePreview, models.StageComplete}, stages)
}

func TestProcess_InvalidImageEndsInError(t *testing.T) {
	p := NewFileProcessor()

	task := p.Process(context.Background(), FileInput{
		Name:     "broken.png",
		MimeType: "image/png",
		Data:     []byte("not an image"),
	})

	result := task.Wait()
	assert.Equal(t, models.AttachmentError, result.Status)
	assert.NotEmpty(t, result.Error)
}

func TestProcess_PDFAllPagesPrimary(t *testing.T) {
	p := processorWithFake(&fakePDF{pages: 3})

	task := p.Process(context.Background(), FileInput{Name: "doc.pdf", MimeType: "application/pdf", Data: []byte("%PDF")})
	result := task.Wait()

	assert.Equal(t, models.AttachmentReady, result.Status)
	assert.Equal(t, 3, result.PdfPageCount)
	assert.Equal(t, models.ExtractionPrimary, result.Progress.Method)
	assert.Equal(t, 3, strings.Count(result.ExtractedText, "primary text"))
}

func TestProcess_PDFFallbackOnSinglePage(t *testing.T) {
	doc := &fakePDF{pages: 5, primaryFails: map[int]bool{3: true}}
	p := processorWithFake(doc)

	task := p.Process(context.Background(), FileInput{Name: "doc.pdf", MimeType: "application/pdf", Data: []byte("%PDF")})

	var pageEvents []models.ProgressInfo
	for info := range task.Events() {
		if info.Stage == models.StageExtracting {
			pageEvents = append(pageEvents, info)
		}
	}
	result := task.Wait()

	// страница 3 извлечена резервным методом, остальные — основным
	assert.Len(t, pageEvents, 5)
	assert.Equal(t, models.ExtractionFallback, pageEvents[2].Method)
	assert.Equal(t, models.ExtractionPrimary, pageEvents[0].Method)

	assert.Equal(t, models.AttachmentReady, result.Status)
	assert.Equal(t, 5, result.PdfPageCount)
	assert.Equal(t, models.ExtractionFallback, result.Progress.Method)
	assert.Contains(t, result.ExtractedText, "fallback text")
}

func TestProcess_PDFPartialExtractionStillReady(t *testing.T) {
	doc := &fakePDF{
		pages:         4,
		primaryFails:  map[int]bool{2: true, 4: true},
		fallbackFails: map[int]bool{2: true, 4: true},
	}
	p := processorWithFake(doc)

	task := p.Process(context.Background(), FileInput{Name: "doc.pdf", MimeType: "application/pdf", Data: []byte("%PDF")})
	result := task.Wait()

	assert.Equal(t, models.AttachmentReady, result.Status)
	assert.Equal(t, 2, strings.Count(result.ExtractedText, "primary text"))
}

func TestProcess_PDFNoExtractablePagesFails(t *testing.T) {
	doc := &fakePDF{
		pages:         2,
		primaryFails:  map[int]bool{1: true, 2: true},
		fallbackFails: map[int]bool{1: true, 2: true},
	}
	p := processorWithFake(doc)

	task := p.Process(context.Background(), FileInput{Name: "doc.pdf", MimeType: "application/pdf", Data: []byte("%PDF")})
	result := task.Wait()

	assert.Equal(t, models.AttachmentError, result.Status)
	assert.Contains(t, result.Error, "any page")
}

func TestProcess_UnreadablePDFFails(t *testing.T) {
	p := NewFileProcessor()
	p.OpenPDF = func(data []byte) (PDFDocument, error) { return nil, errors.New("bad header") }

	task := p.Process(context.Background(), FileInput{Name: "doc.pdf", MimeType: "application/pdf", Data: []byte("junk")})
	result := task.Wait()

	assert.Equal(t, models.AttachmentError, result.Status)
}

func TestProcess_DocumentIsMetadataOnly(t *testing.T) {
	p := NewFileProcessor()

	task := p.Process(context.Background(), FileInput{Name: "notes.docx", MimeType: "application/msword", Data: []byte("content")})
	result := task.Wait()

	assert.Equal(t, models.AttachmentReady, result.Status)
	assert.Equal(t, models.UploadTypeDocument, result.UploadType)
	assert.Empty(t, result.ExtractedText)
}
