package recommend

import (
	"strings"
	"testing"

	"github.com/mohammad-safakhou/cardwise/models"
)

func TestBuildPrompt_Deterministic(t *testing.T) {
	snippets := []models.OfferSnippet{
		{Title: "B", Text: "second", SourceRank: 1},
		{Title: "A", Text: "first", SourceRank: 0},
	}

	p1 := testProfile()
	p1.Goals = []models.Goal{models.GoalTravel, models.GoalCashback}
	p2 := testProfile()
	p2.Goals = []models.Goal{models.GoalCashback, models.GoalTravel}

	out1 := BuildPrompt(p1, snippets)
	out2 := BuildPrompt(p2, []models.OfferSnippet{snippets[1], snippets[0]})

	if out1 != out2 {
		t.Error("prompt is not byte-identical for equivalent inputs")
	}
	if strings.Index(out1, "A: first") > strings.Index(out1, "B: second") {
		t.Error("snippets not ordered by source rank")
	}
}

func TestBuildPrompt_ProfileFields(t *testing.T) {
	out := BuildPrompt(testProfile(), nil)

	for _, want := range []string{
		"Monthly Spending: $3000",
		"Good (700-749)",
		"Maximize cashback",
		"Dining & Travel: 40%",
		"(no market data available)",
		`"primary_recommendation"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_CapsSnippets(t *testing.T) {
	var snippets []models.OfferSnippet
	for i := 0; i < 10; i++ {
		snippets = append(snippets, models.OfferSnippet{
			Title:      "Offer",
			Text:       "details",
			SourceRank: i,
		})
	}

	out := BuildPrompt(testProfile(), snippets)
	if got := strings.Count(out, "- Offer: details"); got != maxPromptSnippets {
		t.Errorf("expected %d snippets in prompt, got %d", maxPromptSnippets, got)
	}
}
