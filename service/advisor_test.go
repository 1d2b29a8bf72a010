package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AnTengye/lawassistant/config"
)

type capturedRequest struct {
	Model     string `json:"model"`
	MaxTokens int64  `json:"max_tokens"`
	System    []struct {
		Text string `json:"text"`
	} `json:"system"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

func newAdvisorServer(t *testing.T, status int, body string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if captured != nil {
			raw, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(raw, captured); err != nil {
				t.Errorf("Failed to decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func testAdvisorConfig(baseURL string) *config.AdvisorConfig {
	return &config.AdvisorConfig{
		Enabled:   true,
		APIKey:    "sk-test",
		BaseURL:   baseURL,
		Model:     "claude-haiku-4-5",
		MaxTokens: 512,
	}
}

func TestAnthropicAdvisorAdvise(t *testing.T) {
	var captured capturedRequest
	server := newAdvisorServer(t, http.StatusOK, `{
		"id": "msg_01",
		"type": "message",
		"role": "assistant",
		"model": "claude-haiku-4-5",
		"content": [
			{"type": "text", "text": "1. Риски: штрафы. "},
			{"type": "text", "text": "2. Рекомендации: уточнить сроки."}
		],
		"stop_reason": "end_turn",
		"stop_sequence": null,
		"usage": {"input_tokens": 10, "output_tokens": 20}
	}`, &captured)

	advisor := NewAnthropicAdvisor(testAdvisorConfig(server.URL))
	advice, err := advisor.Advise(context.Background(), "CONTRACT-BODY-MARKER")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if advice != "1. Риски: штрафы. 2. Рекомендации: уточнить сроки." {
		t.Errorf("Unexpected advice %q", advice)
	}

	if captured.Model != "claude-haiku-4-5" {
		t.Errorf("Expected model claude-haiku-4-5, got %s", captured.Model)
	}
	if captured.MaxTokens != 512 {
		t.Errorf("Expected max_tokens 512, got %d", captured.MaxTokens)
	}
	if len(captured.System) != 1 || !strings.Contains(captured.System[0].Text, "эксперт по юридическому анализу") {
		t.Errorf("Expected legal-expert system prompt, got %+v", captured.System)
	}
	if len(captured.Messages) != 1 || len(captured.Messages[0].Content) != 1 {
		t.Fatalf("Expected a single user message, got %+v", captured.Messages)
	}
	prompt := captured.Messages[0].Content[0].Text
	if !strings.Contains(prompt, "CONTRACT-BODY-MARKER") || !strings.Contains(prompt, "4. Рекомендации по улучшению условий") {
		t.Errorf("Unexpected prompt %q", prompt)
	}
}

func TestAnthropicAdvisorAPIError(t *testing.T) {
	server := newAdvisorServer(t, http.StatusBadRequest,
		`{"type": "error", "error": {"type": "invalid_request_error", "message": "bad request"}}`, nil)

	advisor := NewAnthropicAdvisor(testAdvisorConfig(server.URL))
	if _, err := advisor.Advise(context.Background(), "text"); err == nil {
		t.Error("Expected error for API failure")
	}
}

func TestAnthropicAdvisorEmptyResponse(t *testing.T) {
	server := newAdvisorServer(t, http.StatusOK, `{
		"id": "msg_02",
		"type": "message",
		"role": "assistant",
		"model": "claude-haiku-4-5",
		"content": [],
		"stop_reason": "end_turn",
		"stop_sequence": null,
		"usage": {"input_tokens": 10, "output_tokens": 0}
	}`, nil)

	advisor := NewAnthropicAdvisor(testAdvisorConfig(server.URL))
	_, err := advisor.Advise(context.Background(), "text")
	if err != ErrEmptyAdvice {
		t.Errorf("Expected ErrEmptyAdvice, got %v", err)
	}
}

func TestBuildAdvisoryPrompt(t *testing.T) {
	prompt := BuildAdvisoryPrompt("ТЕКСТ")
	if !strings.HasPrefix(prompt, "Проанализируйте следующий договор и выявите:\n1. Основные риски для подписанта") {
		t.Errorf("Unexpected prompt header %q", prompt)
	}
	if !strings.Contains(prompt, "Текст договора:\nТЕКСТ\n\n") {
		t.Errorf("Expected text block in prompt, got %q", prompt)
	}
}
