package handlers

import (
	"context"
	"net/http"
	"time"

	"mockprep/platform/internal/config"
	"mockprep/platform/internal/llm"
	"mockprep/platform/internal/prompts"
	"mockprep/platform/internal/utils"
)

const serviceName = "mockprep"

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"`  // "ready" | "not_ready"
	Service string                    `json:"service"` // Service name
	Checks  map[string]ReadinessCheck `json:"checks"`  // Individual check results
}

// Pinger reports whether the document store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	provider      llm.Provider
	promptManager prompts.PromptProvider
	config        *config.Config
	store         Pinger
}

func NewHealthHandler(provider llm.Provider, promptManager prompts.PromptProvider, cfg *config.Config, store Pinger) *HealthHandler {
	return &HealthHandler{
		provider:      provider,
		promptManager: promptManager,
		config:        cfg,
		store:         store,
	}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
		"version": "1.0.0",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true

	fail := func(name, message string) {
		checks[name] = ReadinessCheck{Status: "failed", Message: message}
		allChecksPass = false
	}

	if handler.provider == nil {
		fail("provider", "AI provider not initialized")
	} else {
		checks["provider"] = ReadinessCheck{Status: "ok", Message: handler.provider.GetProviderName()}
	}

	switch {
	case handler.promptManager == nil:
		fail("prompt_manager", "Prompt manager not initialized")
	case len(handler.promptManager.GetTemplates()) == 0:
		fail("prompt_manager", "No prompt templates loaded")
	default:
		checks["prompt_manager"] = ReadinessCheck{Status: "ok"}
	}

	if handler.config == nil {
		fail("configuration", "Configuration not loaded")
	} else {
		checks["configuration"] = ReadinessCheck{Status: "ok"}
	}

	if handler.store == nil {
		fail("store", "Document store not initialized")
	} else {
		ctx, cancel := context.WithTimeout(request.Context(), 2*time.Second)
		defer cancel()
		if err := handler.store.Ping(ctx); err != nil {
			fail("store", "Document store unreachable")
		} else {
			checks["store"] = ReadinessCheck{Status: "ok"}
		}
	}

	response := ReadinessResponse{
		Service: serviceName,
		Checks:  checks,
	}

	if allChecksPass {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
	} else {
		response.Status = "not_ready"
		utils.JSON(writer, http.StatusServiceUnavailable, response)
	}
}
