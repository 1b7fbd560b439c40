package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildResponseHTML_RendersMarkdown(t *testing.T) {
	html, err := BuildResponseHTML(ResponseEmail{
		Name:     "Anna",
		Question: "what about headaches?",
		Response: "Take **ibuprofen** and rest.\n\n- drink water\n- sleep well",
	})

	assert.NoError(t, err)
	assert.Contains(t, html, "Dear Anna,")
	assert.Contains(t, html, "what about headaches?")
	assert.Contains(t, html, "<strong>ibuprofen</strong>")
	assert.Contains(t, html, "<li>drink water</li>")
}

func TestBuildResponseHTML_SanitizesScript(t *testing.T) {
	html, err := BuildResponseHTML(ResponseEmail{
		Name:     "Anna",
		Question: "q",
		Response: "hello <script>alert('x')</script> world",
	})

	assert.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "hello")
}

func TestNotifyResponse_SendsExpectedPayload(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewHTTPWebhookNotifier(server.URL)
	err := notifier.NotifyResponse(context.Background(), ResponseEmail{
		Name:       "Anna",
		Email:      "anna@example.com",
		Phone:      "+995555123456",
		Question:   "help",
		AIResponse: "ai text",
	}, "<p>rendered</p>")

	assert.NoError(t, err)
	assert.Equal(t, "Anna", got["name"])
	assert.Equal(t, "anna@example.com", got["email"])
	assert.Equal(t, "+995555123456", got["phone"])
	assert.Equal(t, "help", got["question"])
	assert.Equal(t, "<p>rendered</p>", got["response"])
	assert.Equal(t, "ai text", got["ai_response"])
	assert.Equal(t, true, got["isHTML"])
}

func TestNotifyResponse_NonSuccessStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := NewHTTPWebhookNotifier(server.URL)
	err := notifier.NotifyResponse(context.Background(), ResponseEmail{}, "<p>x</p>")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
