package services

import (
	"bytes"
	"fmt"

	"DoctorPortal/models"

	"github.com/go-pdf/fpdf"
)

// BuildQuestionTranscript собирает PDF с вопросом пациента,
// ответом ассистента и ответом врача
func BuildQuestionTranscript(q models.DoctorQuestion) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(20, 20, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, "Patient Question Transcript")
	doc.Ln(14)

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(100, 100, 100)
	doc.Cell(0, 6, fmt.Sprintf("Submitted: %s", q.CreatedAt.Format("2006-01-02 15:04")))
	doc.Ln(10)
	doc.SetTextColor(0, 0, 0)

	writeSection(doc, "Patient", fmt.Sprintf("%s\n%s\n%s", q.Name, q.Email, q.Phone))
	writeSection(doc, "Question", q.Question)

	if q.AIResponse != "" {
		writeSection(doc, "AI Assistant Response", q.AIResponse)
	}
	if q.Response != "" {
		writeSection(doc, "Doctor's Response", q.Response)
	}

	if len(q.Attachments) > 0 {
		doc.SetFont("Helvetica", "B", 12)
		doc.Cell(0, 8, "Attachments")
		doc.Ln(8)
		doc.SetFont("Helvetica", "", 10)
		for _, att := range q.Attachments {
			line := fmt.Sprintf("- %s (%s, %d bytes)", att.FileName, att.FileType, att.FileSize)
			if att.UploadStatus == models.UploadStatusFailed {
				line += " [upload failed]"
			}
			doc.MultiCell(0, 5, line, "", "L", false)
		}
		doc.Ln(4)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render transcript pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSection(doc *fpdf.Fpdf, title, body string) {
	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(0, 8, title)
	doc.Ln(8)
	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, 5, body, "", "L", false)
	doc.Ln(4)
}
