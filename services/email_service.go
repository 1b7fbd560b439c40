package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// ResponseEmail — данные для письма пациенту с ответом врача
type ResponseEmail struct {
	Name       string
	Email      string
	Phone      string
	Question   string
	Response   string // markdown от врача
	AIResponse string
}

var emailTemplate = template.Must(template.New("response").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f4f6f8;font-family:Arial,Helvetica,sans-serif;">
  <div style="max-width:600px;margin:0 auto;padding:24px;">
    <div style="background-color:#2c5f8a;color:#ffffff;padding:20px 24px;border-radius:8px 8px 0 0;">
      <h2 style="margin:0;">Response to Your Question</h2>
    </div>
    <div style="background-color:#ffffff;padding:24px;border-radius:0 0 8px 8px;">
      <p>Dear {{.Name}},</p>
      <p>Thank you for your question. Here is the doctor's response:</p>
      <div style="background-color:#f8f9fa;border-left:4px solid #2c5f8a;padding:12px 16px;margin:16px 0;">
        <p style="margin:0;color:#555;"><em>Your question:</em></p>
        <p style="margin:8px 0 0;">{{.Question}}</p>
      </div>
      <div style="margin:16px 0;">{{.ResponseHTML}}</div>
      <p style="color:#888;font-size:12px;margin-top:24px;">
        This response does not replace an in-person consultation.
      </p>
    </div>
  </div>
</body>
</html>`))

// BuildResponseHTML рендерит markdown-ответ врача в письмо.
// HTML после рендера проходит санитизацию.
func BuildResponseHTML(email ResponseEmail) (string, error) {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	rendered := markdown.ToHTML([]byte(email.Response), p, renderer)
	safe := bluemonday.UGCPolicy().SanitizeBytes(rendered)

	var buf bytes.Buffer
	data := struct {
		ResponseEmail
		ResponseHTML template.HTML
	}{email, template.HTML(safe)}

	if err := emailTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render response email: %w", err)
	}
	return buf.String(), nil
}

// WebhookNotifier доставляет готовое письмо внешнему сервису отправки
type WebhookNotifier interface {
	NotifyResponse(ctx context.Context, email ResponseEmail, html string) error
}

// HTTPWebhookNotifier шлет payload на настроенный webhook
type HTTPWebhookNotifier struct {
	URL    string
	Client *http.Client
}

func NewHTTPWebhookNotifier(url string) *HTTPWebhookNotifier {
	return &HTTPWebhookNotifier{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (n *HTTPWebhookNotifier) NotifyResponse(ctx context.Context, email ResponseEmail, html string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"name":        email.Name,
		"email":       email.Email,
		"phone":       email.Phone,
		"question":    email.Question,
		"response":    html,
		"ai_response": email.AIResponse,
		"isHTML":      true,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
