package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mohammad-safakhou/cardwise/models"
)

// maxPromptSnippets caps how many snippets reach the prompt, truncating by
// source rank to bound prompt length.
const maxPromptSnippets = 5

// BuildPrompt renders the profile and search snippets into the completion
// prompt. Pure function: identical inputs produce byte-identical output
// (goals in canonical order, category keys sorted, snippets ordered by
// source rank).
func BuildPrompt(profile models.Profile, snippets []models.OfferSnippet) string {
	var b strings.Builder

	b.WriteString("You are a professional financial advisor. Analyze this user's essential financial profile ")
	b.WriteString("and current real-time credit card market data to provide the most suitable credit card recommendations.\n\n")

	b.WriteString("USER ESSENTIAL PROFILE:\n")
	fmt.Fprintf(&b, "- Monthly Spending: $%.0f\n", profile.MonthlySpend)
	fmt.Fprintf(&b, "- Credit Score Range: %s\n", profile.CreditScore.Display())
	fmt.Fprintf(&b, "- Primary Goals: %s\n", strings.Join(goalLabels(profile), ", "))
	b.WriteString("- Top Spending Categories:\n")
	for _, name := range profile.Categories() {
		fmt.Fprintf(&b, "  - %s: %.0f%%\n", name, profile.CategoryAllocation[name])
	}

	b.WriteString("\nCURRENT REAL-TIME MARKET DATA:\n")
	if len(snippets) == 0 {
		b.WriteString("(no market data available)\n")
	} else {
		ordered := make([]models.OfferSnippet, len(snippets))
		copy(ordered, snippets)
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].SourceRank < ordered[j].SourceRank })
		for i, sn := range ordered {
			if i >= maxPromptSnippets {
				break
			}
			fmt.Fprintf(&b, "- %s: %s\n", sn.Title, sn.Text)
		}
	}

	b.WriteString("\nANALYSIS INSTRUCTIONS:\n")
	fmt.Fprintf(&b, "1. Focus on the user's monthly spending amount of $%.0f to calculate actual reward values\n", profile.MonthlySpend)
	fmt.Fprintf(&b, "2. Ensure recommended cards match their %s credit score range\n", profile.CreditScore.Display())
	b.WriteString("3. Prioritize cards that align with their goals\n")
	b.WriteString("4. Consider their spending category allocation\n")
	b.WriteString("5. Use only current market data to ensure recommendations reflect today's offers\n")

	b.WriteString(`
Please provide your response in the following JSON format:
{
  "primary_recommendation": {
    "card_name": "Exact card name from market data",
    "issuer": "Card issuer",
    "key_benefits": ["benefit1", "benefit2", "benefit3"],
    "annual_fee": "Specific fee amount or 'No annual fee'",
    "reward_rate": "Detailed reward structure for their spending",
    "why_recommended": "Specific explanation based on their profile",
    "current_signup_bonus": "Current signup bonus if available"
  },
  "action_plan": ["step 1", "step 2", "step 3", "step 4"],
  "optimization_tips": ["tip 1", "tip 2", "tip 3"],
  "estimated_annual_value": "Calculated dollar value based on their monthly spending",
  "alternative_options": [
    {"card_name": "Alternative card name", "reason": "Why this could work for their profile"}
  ]
}
`)

	return b.String()
}

// goalLabels returns display labels for the profile's goals in canonical
// order, independent of request ordering.
func goalLabels(p models.Profile) []string {
	var labels []string
	for _, g := range models.AllGoals {
		if p.HasGoal(g) {
			labels = append(labels, g.Display())
		}
	}
	return labels
}
