package gemini

import "mockprep/platform/internal/llm"

func init() {
	llm.RegisterProvider(providerName, newProvider)
}

func newProvider() (llm.Provider, error) {
	cfg, err := NewConfig()
	if err != nil {
		return nil, err
	}
	return NewClient(cfg)
}
