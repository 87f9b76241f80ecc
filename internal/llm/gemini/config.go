package gemini

import (
	"os"

	"mockprep/platform/internal/llm"
)

const defaultModel = "gemini-2.0-flash-001"

// Config selects the key and model used for scoring.
type Config struct {
	APIKey string
	Model  string
}

// NewConfig reads GEMINI_API_KEY and GEMINI_MODEL. A missing key is an
// invalid_api_key provider error so readiness can report it plainly.
func NewConfig() (*Config, error) {
	cfg := &Config{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  os.Getenv("GEMINI_MODEL"),
	}
	if cfg.APIKey == "" {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeAPIKey,
			Message:  "GEMINI_API_KEY environment variable is required",
		}
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return cfg, nil
}
