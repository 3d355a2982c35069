package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/mohammad-safakhou/cardwise/config"
	"github.com/mohammad-safakhou/cardwise/internal/telemetry"
	"github.com/mohammad-safakhou/cardwise/models"
)

// fakeProvider returns scripted outcomes per model and records call order.
type fakeProvider struct {
	outcomes map[string]error
	texts    map[string]string
	calls    []string
}

func (f *fakeProvider) Complete(ctx context.Context, model string, prompt string) (string, error) {
	f.calls = append(f.calls, model)
	if err := f.outcomes[model]; err != nil {
		return "", err
	}
	if text, ok := f.texts[model]; ok {
		return text, nil
	}
	return "ok from " + model, nil
}

func transientErr() error {
	return &models.ProviderError{Status: 503, Kind: models.ErrorKindTransient, Message: "upstream overloaded"}
}

func authErr() error {
	return &models.ProviderError{Status: 401, Kind: models.ErrorKindPermanent, Message: "invalid api key"}
}

func newTestOrchestrator(t *testing.T, p Provider, modelPriority []string) *Orchestrator {
	t.Helper()
	tele := telemetry.NewTelemetry(config.TelemetryConfig{Enabled: true})
	o, err := NewOrchestrator(p, modelPriority, tele)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return o
}

func TestOrchestrator_FirstSuccessShortCircuits(t *testing.T) {
	fp := &fakeProvider{texts: map[string]string{"model-a": "answer"}}
	o := newTestOrchestrator(t, fp, []string{"model-a", "model-b"})

	raw, attempts, err := o.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != "answer" {
		t.Errorf("unexpected raw text: %q", raw)
	}
	if len(attempts) != 1 {
		t.Fatalf("expected 1 attempt, got %d", len(attempts))
	}
	if len(fp.calls) != 1 || fp.calls[0] != "model-a" {
		t.Errorf("expected only model-a to be called, got %v", fp.calls)
	}
}

func TestOrchestrator_TransientThenSuccess(t *testing.T) {
	fp := &fakeProvider{
		outcomes: map[string]error{"model-a": transientErr()},
		texts:    map[string]string{"model-b": "from b"},
	}
	o := newTestOrchestrator(t, fp, []string{"model-a", "model-b"})

	raw, attempts, err := o.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != "from b" {
		t.Errorf("expected second model's text, got %q", raw)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	if attempts[0].Succeeded || attempts[0].ErrorKind != models.ErrorKindTransient {
		t.Errorf("first attempt should be a transient failure: %+v", attempts[0])
	}
	if !attempts[1].Succeeded {
		t.Errorf("second attempt should succeed: %+v", attempts[1])
	}
}

func TestOrchestrator_AllTransientFails(t *testing.T) {
	priority := []string{"model-a", "model-b", "model-c"}
	fp := &fakeProvider{outcomes: map[string]error{
		"model-a": transientErr(),
		"model-b": transientErr(),
		"model-c": transientErr(),
	}}
	o := newTestOrchestrator(t, fp, priority)

	_, attempts, err := o.Complete(context.Background(), "prompt")
	var allFailed *AllModelsFailedError
	if !errors.As(err, &allFailed) {
		t.Fatalf("expected AllModelsFailedError, got %v", err)
	}
	if len(attempts) != len(priority) {
		t.Errorf("expected attempt log of length %d, got %d", len(priority), len(attempts))
	}
	if len(allFailed.Attempts) != len(priority) {
		t.Errorf("error should carry all attempts, got %d", len(allFailed.Attempts))
	}
}

func TestOrchestrator_PermanentAbortsImmediately(t *testing.T) {
	fp := &fakeProvider{outcomes: map[string]error{"model-a": authErr()}}
	o := newTestOrchestrator(t, fp, []string{"model-a", "model-b", "model-c"})

	_, attempts, err := o.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
	if len(attempts) != 1 {
		t.Errorf("expected 1 attempt before abort, got %d", len(attempts))
	}
	if len(fp.calls) != 1 {
		t.Errorf("no model should be invoked after a permanent failure, calls: %v", fp.calls)
	}
}

func TestOrchestrator_EmptyCompletionIsTransient(t *testing.T) {
	fp := &fakeProvider{
		texts: map[string]string{"model-a": "", "model-b": "real answer"},
	}
	o := newTestOrchestrator(t, fp, []string{"model-a", "model-b"})

	raw, attempts, err := o.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != "real answer" {
		t.Errorf("unexpected raw text: %q", raw)
	}
	if len(attempts) != 2 || attempts[0].Succeeded {
		t.Errorf("empty completion should count as a failed attempt: %+v", attempts)
	}
}

func TestNewOrchestrator_RequiresModels(t *testing.T) {
	if _, err := NewOrchestrator(&fakeProvider{}, nil, nil); err == nil {
		t.Fatal("expected error for empty model list")
	}
}
