package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/mohammad-safakhou/cardwise/config"
	"github.com/mohammad-safakhou/cardwise/models"
	openrouter_provider "github.com/mohammad-safakhou/cardwise/provider/openrouter"
)

// Client represents different LLM providers
type Client string

const (
	OpenRouter Client = "openrouter"
	OpenAI     Client = "openai"
	Anthropic  Client = "anthropic"
)

// Provider is the interface that all completion implementations must satisfy.
// Failures are reported as *models.ProviderError so the orchestrator can
// classify them.
type Provider interface {
	Complete(ctx context.Context, model string, prompt string) (string, error)
}

// ErrAuthenticationFailed marks a credential problem. Retrying with a
// different model cannot fix it, so the orchestrator aborts the whole run.
var ErrAuthenticationFailed = errors.New("authentication failed")

// AllModelsFailedError is returned when every configured model failed
// transiently. It carries the per-model attempt log for diagnostics.
type AllModelsFailedError struct {
	Attempts []models.ModelAttempt
}

func (e *AllModelsFailedError) Error() string {
	return fmt.Sprintf("all %d models failed", len(e.Attempts))
}

// NewProvider creates a completion client based on the provided configuration
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch Client(cfg.Provider) {
	case OpenRouter:
		if cfg.APIKey == "" {
			return nil, errors.New("OPENROUTER_API_KEY not set")
		}
		return openrouter_provider.NewClient(
			cfg.APIKey,
			cfg.BaseURL,
			cfg.MaxTokens,
			cfg.Temperature,
			cfg.Timeout,
		), nil
	case OpenAI:
		return nil, errors.New("openai client not implemented yet")
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}

// KindOf classifies a completion error. Anything that is not an explicitly
// permanent provider failure is treated as transient: a different model may
// still succeed.
func KindOf(err error) models.ErrorKind {
	var pe *models.ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return models.ErrorKindTransient
}

// isAuthError reports whether a permanent failure is credential-level.
func isAuthError(err error) bool {
	var pe *models.ProviderError
	if errors.As(err, &pe) {
		return pe.Status == 401 || pe.Status == 403
	}
	return false
}
