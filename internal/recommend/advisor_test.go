package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/mohammad-safakhou/cardwise/models"
)

type fakeSource struct {
	snippets []models.OfferSnippet
	err      error
	calls    int
}

func (f *fakeSource) Search(context.Context, models.Profile) ([]models.OfferSnippet, error) {
	f.calls++
	return f.snippets, f.err
}

type fakeCompleter struct {
	raw      string
	attempts []models.ModelAttempt
	err      error
	calls    int
	prompt   string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, []models.ModelAttempt, error) {
	f.calls++
	f.prompt = prompt
	return f.raw, f.attempts, f.err
}

func TestRecommend_FullPipeline(t *testing.T) {
	source := &fakeSource{snippets: []models.OfferSnippet{
		{Title: "Best cashback cards", Text: "Citi Double Cash earns 2%", SourceRank: 0},
		{Title: "Top offers", Text: "Chase Freedom Unlimited 1.5%", SourceRank: 1},
		{Title: "2026 roundup", Text: "Wells Fargo Active Cash 2%", SourceRank: 2},
	}}
	completer := &fakeCompleter{
		raw: `{"primary_recommendation":{"card_name":"Citi Double Cash"}}`,
		attempts: []models.ModelAttempt{
			{Model: "model-a", Succeeded: false, ErrorKind: models.ErrorKindTransient},
			{Model: "model-b", Succeeded: true},
		},
	}

	a, err := NewAdvisor(source, completer, nil)
	if err != nil {
		t.Fatal(err)
	}

	res, err := a.Recommend(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Recommendation.PrimaryCard != "Citi Double Cash" {
		t.Errorf("primary card: %q", res.Recommendation.PrimaryCard)
	}
	if res.Recommendation.RawText == "" {
		t.Error("raw text should be preserved")
	}
	if len(res.Attempts) != 2 {
		t.Errorf("expected 2 attempts, got %d", len(res.Attempts))
	}
	if len(res.Snippets) != 3 {
		t.Errorf("expected 3 snippets, got %d", len(res.Snippets))
	}
	if completer.prompt == "" {
		t.Error("completer never saw a prompt")
	}
}

func TestRecommend_InvalidProfileSkipsSearch(t *testing.T) {
	source := &fakeSource{}
	completer := &fakeCompleter{}
	a, _ := NewAdvisor(source, completer, nil)

	bad := testProfile()
	bad.MonthlySpend = 100

	_, err := a.Recommend(context.Background(), bad)
	if !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("expected ErrInvalidProfile, got %v", err)
	}
	if source.calls != 0 || completer.calls != 0 {
		t.Error("pipeline ran past validation")
	}
}

func TestRecommend_SearchFailureSkipsCompletion(t *testing.T) {
	source := &fakeSource{err: ErrSearchUnavailable}
	completer := &fakeCompleter{}
	a, _ := NewAdvisor(source, completer, nil)

	_, err := a.Recommend(context.Background(), testProfile())
	if !errors.Is(err, ErrSearchUnavailable) {
		t.Fatalf("expected ErrSearchUnavailable, got %v", err)
	}
	if completer.calls != 0 {
		t.Error("completion ran despite missing market data")
	}
}

func TestRecommend_CompletionFailurePropagates(t *testing.T) {
	source := &fakeSource{snippets: []models.OfferSnippet{{Title: "t", Text: "x"}}}
	wantErr := errors.New("all models failed")
	completer := &fakeCompleter{err: wantErr}
	a, _ := NewAdvisor(source, completer, nil)

	_, err := a.Recommend(context.Background(), testProfile())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected completion error, got %v", err)
	}
}
