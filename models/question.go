package models

import (
	"time"
)

// DoctorQuestion — вопрос пациента с опциональным AI-ответом и ответом врача
type DoctorQuestion struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"column:name" json:"name"`
	Email        string     `gorm:"column:email" json:"email"`
	Phone        string     `gorm:"column:phone" json:"phone,omitempty"`
	Question     string     `gorm:"column:question" json:"question"`
	AIResponse   string     `gorm:"column:ai_response" json:"ai_response,omitempty"`
	AIResponseAt *time.Time `gorm:"column:ai_response_at" json:"ai_response_at,omitempty"`

	Response       string     `gorm:"column:response" json:"response,omitempty"`
	Answered       bool       `gorm:"column:answered;default:false" json:"answered"`
	AnsweredAt     *time.Time `gorm:"column:answered_at" json:"answered_at,omitempty"`
	ResponseSent   bool       `gorm:"column:response_sent;default:false" json:"response_sent"`
	ResponseSentAt *time.Time `gorm:"column:response_sent_at" json:"response_sent_at,omitempty"`

	VoiceRecordingPath     string `gorm:"column:voice_recording_path" json:"voice_recording_path,omitempty"`
	VoiceRecordingDuration int    `gorm:"column:voice_recording_duration" json:"voice_recording_duration,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Attachments []QuestionAttachment `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

func (DoctorQuestion) TableName() string {
	return "doctor_questions"
}

// QuestionAttachment — запись о файле, сохраненном вместе с вопросом.
// Неудачные загрузки тоже записываются (upload_status = failed) для диагностики.
type QuestionAttachment struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID       string    `gorm:"column:question_id;type:uuid;index" json:"question_id"`
	FileName         string    `gorm:"column:file_name" json:"file_name"`
	FileType         string    `gorm:"column:file_type" json:"file_type"`
	FileSize         int64     `gorm:"column:file_size" json:"file_size"`
	FilePath         string    `gorm:"column:file_path" json:"file_path,omitempty"`
	UploadStatus     string    `gorm:"column:upload_status" json:"upload_status"`
	ErrorMessage     string    `gorm:"column:error_message" json:"error_message,omitempty"`
	ExtractedText    string    `gorm:"column:extracted_text" json:"extracted_text,omitempty"`
	PdfPageCount     int       `gorm:"column:pdf_page_count" json:"pdf_page_count,omitempty"`
	ExtractionMethod string    `gorm:"column:extraction_method" json:"extraction_method,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func (QuestionAttachment) TableName() string {
	return "doctor_question_attachments"
}
