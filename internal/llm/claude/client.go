// Package claude provides the Claude backed structured output provider.
// Claude has no response schema parameter here, so the schema travels in the
// system prompt and the reply is unwrapped from any markdown fencing.
package claude

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"mockprep/platform/internal/llm"
)

const providerName = "anthropic"

const maxTokens = 4096

type Client struct {
	api   *anthropic.Client
	model anthropic.Model
}

func NewClient(config *Config, extra ...option.RequestOption) *Client {
	opts := []option.RequestOption{}
	if config.APIKey != "" {
		opts = append(opts, option.WithAPIKey(config.APIKey))
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	opts = append(opts, extra...)
	client := anthropic.NewClient(opts...)
	return &Client{api: &client, model: anthropic.Model(config.Model)}
}

func (c *Client) GenerateStructured(ctx context.Context, req *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	startTime := time.Now()

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt(req)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     classify(ctx, err),
			Message:  "Failed to generate content",
			Err:      err,
		}
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	text = stripFences(text)
	if text == "" {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Empty response generated",
		}
	}

	return &llm.GenerationResponse{
		Content:   text,
		RequestID: req.RequestID,
		Metadata: llm.GenerationMetadata{
			Provider:       providerName,
			Model:          string(c.model),
			ProcessingTime: int(time.Since(startTime).Milliseconds()),
		},
	}, nil
}

func (c *Client) GetProviderName() string {
	return providerName
}

func systemPrompt(req *llm.GenerationRequest) string {
	var sb strings.Builder
	sb.WriteString(req.System)
	if req.Schema != nil {
		sb.WriteString("\n\nReturn ONLY a JSON object matching this JSON Schema, no markdown fencing or explanation:\n")
		sb.WriteString(req.Schema.JSON())
	}
	return strings.TrimSpace(sb.String())
}

func classify(ctx context.Context, err error) string {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return llm.ErrCodeAPIKey
		case http.StatusBadRequest:
			return llm.ErrCodeInvalidInput
		}
		return llm.ClassifyCallError(ctx, err, apiErr.StatusCode == http.StatusTooManyRequests)
	}
	return llm.ClassifyCallError(ctx, err, false)
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.SplitN(text, "\n", 2)
		if len(lines) > 1 {
			text = lines[1]
		} else {
			text = ""
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	return text
}
