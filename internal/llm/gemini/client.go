package gemini

import (
	"context"
	"strings"
	"time"

	"google.golang.org/genai"

	"mockprep/platform/internal/llm"
)

const providerName = "gemini"

// Client represents a Gemini LLM client
type Client struct {
	client *genai.Client
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	return &Client{
		client: client,
		config: config,
	}, nil
}

// GenerateStructured asks the model for a JSON document matching req.Schema.
func (c *Client) GenerateStructured(ctx context.Context, req *llm.GenerationRequest) (*llm.GenerationResponse, error) {
	startTime := time.Now()

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.Schema != nil {
		cfg.ResponseSchema = toGenaiSchema(req.Schema)
	}

	result, err := c.client.Models.GenerateContent(ctx, c.config.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ClassifyCallError(ctx, err, isRateLimit(err)),
			Message:  "Failed to generate content",
			Err:      err,
		}
	}

	if result == nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeInvalidInput,
			Message:  "No response generated",
		}
	}

	content, err := result.Text()
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Failed to extract response text",
			Err:      err,
		}
	}
	if strings.TrimSpace(content) == "" {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Empty response generated",
		}
	}

	return &llm.GenerationResponse{
		Content:   content,
		RequestID: req.RequestID,
		Metadata: llm.GenerationMetadata{
			Provider:       providerName,
			Model:          c.config.Model,
			ProcessingTime: int(time.Since(startTime).Milliseconds()),
		},
	}, nil
}

func (c *Client) GetProviderName() string {
	return providerName
}

func isRateLimit(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted")
}

// gemini rejects numeric bounds on some models, so only the structural part
// of the schema is sent. Ranges are checked after parsing.
func toGenaiSchema(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        toGenaiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Items:       toGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func toGenaiType(t llm.SchemaType) genai.Type {
	switch t {
	case llm.TypeObject:
		return genai.TypeObject
	case llm.TypeArray:
		return genai.TypeArray
	case llm.TypeInteger:
		return genai.TypeInteger
	case llm.TypeNumber:
		return genai.TypeNumber
	case llm.TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
