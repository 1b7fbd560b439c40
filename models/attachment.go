package models

// Константы для типов загрузки и статусов обработки файлов
const (
	UploadTypeImage    = "image"
	UploadTypePDF      = "pdf"
	UploadTypeDocument = "document"

	AttachmentProcessing = "processing"
	AttachmentReady      = "ready"
	AttachmentError      = "error"

	ExtractionPrimary  = "primary"
	ExtractionFallback = "fallback"

	UploadStatusSuccess = "success"
	UploadStatusFailed  = "failed"
)

// ProgressStage — этап обработки файла
type ProgressStage string

const (
	StageAnalyzing  ProgressStage = "analyzing"
	StageExtracting ProgressStage = "extracting"
	StagePreview    ProgressStage = "preview"
	StageComplete   ProgressStage = "complete"
	StageFailed     ProgressStage = "failed"
)

// ProgressInfo описывает ход обработки одного файла
type ProgressInfo struct {
	Stage            ProgressStage `json:"stage"`
	StageDescription string        `json:"stage_description"`
	Percentage       int           `json:"percentage"`
	CurrentPage      int           `json:"current_page,omitempty"`
	TotalPages       int           `json:"total_pages,omitempty"`
	Method           string        `json:"method,omitempty"`
}

// Attachment — файл, прикрепленный к сообщению или вопросу, со статусом обработки.
// Живет в памяти в рамках одной сессии ввода; не является моделью БД.
type Attachment struct {
	ID            string        `json:"id"`
	FileName      string        `json:"file_name"`
	MimeType      string        `json:"mime_type"`
	Size          int64         `json:"size"`
	Data          []byte        `json:"-"`
	UploadType    string        `json:"upload_type"`
	Status        string        `json:"status"`
	Preview       string        `json:"preview,omitempty"`
	ExtractedText string        `json:"extracted_text,omitempty"`
	PdfPageCount  int           `json:"pdf_page_count,omitempty"`
	Progress      *ProgressInfo `json:"progress,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// ReleasePreview освобождает локальную ссылку на превью
func (a *Attachment) ReleasePreview() {
	a.Preview = ""
}

// IsReady проверяет, что файл в терминальном состоянии ready
func (a *Attachment) IsReady() bool {
	return a.Status == AttachmentReady
}

// UploadTypeFor определяет тип загрузки по MIME-типу файла
func UploadTypeFor(mimeType string) string {
	switch {
	case len(mimeType) >= 6 && mimeType[:6] == "image/":
		return UploadTypeImage
	case mimeType == "application/pdf":
		return UploadTypePDF
	default:
		return UploadTypeDocument
	}
}
