package claude

import (
	"errors"
	"os"
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

func NewConfig() (*Config, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY environment variable is required")
	}
	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = "claude-haiku-4-5-20251001"
	}
	return &Config{APIKey: apiKey, Model: model, BaseURL: os.Getenv("ANTHROPIC_BASE_URL")}, nil
}
