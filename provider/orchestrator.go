package provider

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mohammad-safakhou/cardwise/internal/telemetry"
	"github.com/mohammad-safakhou/cardwise/models"
)

// Orchestrator tries a priority-ordered list of models against the
// completion provider and returns the first successful raw text. Trials are
// sequential by design: free-tier hosted models have independent
// availability, and stopping at the first success minimizes latency and
// cost.
type Orchestrator struct {
	provider  Provider
	models    []string
	logger    *log.Logger
	telemetry *telemetry.Telemetry
}

// NewOrchestrator creates an orchestrator over the given model priority
// list. The list comes from configuration, never from code.
func NewOrchestrator(p Provider, modelPriority []string, tele *telemetry.Telemetry) (*Orchestrator, error) {
	if p == nil {
		return nil, errors.New("provider is required")
	}
	if len(modelPriority) == 0 {
		return nil, errors.New("at least one model is required")
	}
	return &Orchestrator{
		provider:  p,
		models:    modelPriority,
		logger:    log.New(log.Writer(), "[ORCH] ", log.LstdFlags),
		telemetry: tele,
	}, nil
}

// Models returns the configured priority list.
func (o *Orchestrator) Models() []string { return o.models }

// Complete iterates the model list in order and returns the first non-empty
// completion. Transient failures move on to the next model with no
// inter-model delay. A permanent failure aborts the iteration: a credential
// problem is uniform across models, so cycling through the rest only wastes
// time. The attempt log is returned in every case.
func (o *Orchestrator) Complete(ctx context.Context, prompt string) (string, []models.ModelAttempt, error) {
	attempts := make([]models.ModelAttempt, 0, len(o.models))

	for _, model := range o.models {
		start := time.Now()
		raw, err := o.provider.Complete(ctx, model, prompt)
		elapsed := time.Since(start)

		if err == nil && raw == "" {
			err = &models.ProviderError{Kind: models.ErrorKindTransient, Message: "empty completion"}
		}

		if err == nil {
			attempts = append(attempts, models.ModelAttempt{Model: model, Succeeded: true, Duration: elapsed})
			o.recordAttempt(model, elapsed, true, "")
			o.logger.Printf("model %s succeeded in %v", model, elapsed)
			return raw, attempts, nil
		}

		kind := KindOf(err)
		attempts = append(attempts, models.ModelAttempt{
			Model:     model,
			Succeeded: false,
			ErrorKind: kind,
			Error:     err.Error(),
			Duration:  elapsed,
		})
		o.recordAttempt(model, elapsed, false, kind)
		o.logger.Printf("model %s failed (%s): %v", model, kind, err)

		if kind == models.ErrorKindPermanent {
			if isAuthError(err) {
				return "", attempts, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
			}
			return "", attempts, fmt.Errorf("permanent provider failure: %w", err)
		}

		if ctx.Err() != nil {
			return "", attempts, ctx.Err()
		}
	}

	return "", attempts, &AllModelsFailedError{Attempts: attempts}
}

func (o *Orchestrator) recordAttempt(model string, d time.Duration, success bool, kind models.ErrorKind) {
	if o.telemetry == nil {
		return
	}
	o.telemetry.RecordModelAttempt(telemetry.ModelAttemptEvent{
		Model:     model,
		Duration:  d,
		Success:   success,
		ErrorKind: string(kind),
	})
}
