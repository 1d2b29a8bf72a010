package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AnTengye/lawassistant/config"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Advisor produces free-form advisory commentary on contract text
type Advisor interface {
	Advise(ctx context.Context, text string) (string, error)
}

// ErrEmptyAdvice is returned when the model answers without any text
var ErrEmptyAdvice = errors.New("empty advisory response")

const advisorSystemPrompt = "Вы - эксперт по юридическому анализу договоров. " +
	"Анализируйте договоры на предмет рисков, невыгодных условий и потенциальных проблем."

// BuildAdvisoryPrompt wraps contract text in the analysis instructions
func BuildAdvisoryPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("Проанализируйте следующий договор и выявите:\n")
	sb.WriteString("1. Основные риски для подписанта\n")
	sb.WriteString("2. Невыгодные или несправедливые условия\n")
	sb.WriteString("3. Потенциальные финансовые обязательства\n")
	sb.WriteString("4. Рекомендации по улучшению условий\n\n")
	sb.WriteString("Текст договора:\n")
	sb.WriteString(text)
	sb.WriteString("\n\nПредоставьте краткий, но содержательный анализ.")
	return sb.String()
}

// AnthropicAdvisor asks a Claude model for the advisory text
type AnthropicAdvisor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func NewAnthropicAdvisor(cfg *config.AdvisorConfig) *AnthropicAdvisor {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(1),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicAdvisor{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

func (a *AnthropicAdvisor) Advise(ctx context.Context, text string) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: advisorSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildAdvisoryPrompt(text))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude API error: %w", err)
	}

	advice := strings.TrimSpace(extractText(message))
	if advice == "" {
		return "", ErrEmptyAdvice
	}
	return advice, nil
}

func extractText(msg *anthropic.Message) string {
	var parts []string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "")
}
