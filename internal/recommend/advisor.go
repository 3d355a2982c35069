package recommend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mohammad-safakhou/cardwise/internal/telemetry"
	"github.com/mohammad-safakhou/cardwise/models"
)

// SnippetSource supplies current offer snippets for a profile.
type SnippetSource interface {
	Search(ctx context.Context, profile models.Profile) ([]models.OfferSnippet, error)
}

// Completer runs a prompt through the configured model priority list and
// reports the per-model attempt log alongside the outcome.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, []models.ModelAttempt, error)
}

// Advisor runs the full recommendation pipeline: validate the profile, fetch
// market data, build the prompt, obtain a completion and parse it.
type Advisor struct {
	search    SnippetSource
	completer Completer
	logger    *log.Logger
	telemetry *telemetry.Telemetry
}

// Result is the outcome of one pipeline run.
type Result struct {
	Recommendation models.Recommendation `json:"recommendation"`
	Snippets       []models.OfferSnippet `json:"snippets"`
	Attempts       []models.ModelAttempt `json:"attempts"`
	GeneratedAt    time.Time             `json:"generated_at"`
}

// NewAdvisor wires the pipeline stages together.
func NewAdvisor(search SnippetSource, completer Completer, tele *telemetry.Telemetry) (*Advisor, error) {
	if search == nil {
		return nil, errors.New("advisor requires a snippet source")
	}
	if completer == nil {
		return nil, errors.New("advisor requires a completer")
	}
	return &Advisor{
		search:    search,
		completer: completer,
		logger:    log.New(log.Writer(), "[ADVISOR] ", log.LstdFlags),
		telemetry: tele,
	}, nil
}

// Recommend produces a recommendation for the profile. Stages run strictly in
// order and the first failing stage aborts the run: an invalid profile never
// reaches the searcher, and a failed search never reaches the models.
func (a *Advisor) Recommend(ctx context.Context, profile models.Profile) (*Result, error) {
	runID := uuid.New().String()
	start := time.Now()

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	snippets, err := a.search.Search(ctx, profile)
	if err != nil {
		a.logger.Printf("[%s] search failed: %v", runID, err)
		a.record(runID, start, false, err, nil, 0)
		return nil, err
	}
	a.logger.Printf("[%s] fetched %d offer snippets", runID, len(snippets))

	prompt := BuildPrompt(profile, snippets)

	raw, attempts, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		a.logger.Printf("[%s] completion failed after %d attempts: %v", runID, len(attempts), err)
		a.record(runID, start, false, err, attempts, len(snippets))
		return nil, err
	}

	rec := Parse(raw)
	a.logger.Printf("[%s] recommendation ready (primary=%q, %d attempts, %v)",
		runID, rec.PrimaryCard, len(attempts), time.Since(start))
	a.record(runID, start, true, nil, attempts, len(snippets))

	return &Result{
		Recommendation: rec,
		Snippets:       snippets,
		Attempts:       attempts,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

func (a *Advisor) record(runID string, start time.Time, success bool, runErr error, attempts []models.ModelAttempt, snippetCount int) {
	if a.telemetry == nil {
		return
	}
	event := telemetry.RecommendationEvent{
		ID:             runID,
		StartTime:      start,
		EndTime:        time.Now(),
		ProcessingTime: time.Since(start),
		Success:        success,
		SnippetCount:   snippetCount,
	}
	if runErr != nil {
		event.Error = runErr.Error()
	}
	for _, at := range attempts {
		event.ModelsTried = append(event.ModelsTried, at.Model)
	}
	a.telemetry.RecordRecommendationEvent(event)
}
