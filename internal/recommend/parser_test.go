package recommend

import (
	"testing"
)

func TestParse_JSONResponse(t *testing.T) {
	raw := `Here is my recommendation:
{
  "primary_recommendation": {
    "card_name": "Chase Sapphire Preferred",
    "issuer": "Chase",
    "key_benefits": ["3x dining", "2x travel", " "],
    "annual_fee": "$95",
    "reward_rate": "1-3x points",
    "why_recommended": "Matches travel goals",
    "current_signup_bonus": "60,000 points"
  },
  "action_plan": ["Apply online", "Meet spend requirement"],
  "optimization_tips": ["Use for dining"],
  "estimated_annual_value": "$1,250.50",
  "alternative_options": [
    {"card_name": "Capital One Venture", "reason": "Flat-rate travel"}
  ]
}
Let me know if you need more detail.`

	rec := Parse(raw)
	if rec.RawText != raw {
		t.Fatal("raw text not preserved verbatim")
	}
	if rec.PrimaryCard != "Chase Sapphire Preferred" {
		t.Errorf("primary card: %q", rec.PrimaryCard)
	}
	if rec.Issuer != "Chase" || rec.AnnualFee != "$95" {
		t.Errorf("issuer/fee: %q / %q", rec.Issuer, rec.AnnualFee)
	}
	if len(rec.Benefits) != 2 {
		t.Errorf("expected blank benefit dropped, got %v", rec.Benefits)
	}
	if len(rec.ActionPlan) != 2 || len(rec.OptimizationTips) != 1 {
		t.Errorf("plan/tips: %v / %v", rec.ActionPlan, rec.OptimizationTips)
	}
	if rec.EstimatedAnnualValue == nil || *rec.EstimatedAnnualValue != 1250.50 {
		t.Errorf("estimated value: %v", rec.EstimatedAnnualValue)
	}
	if len(rec.Alternatives) != 1 || rec.Alternatives[0].CardName != "Capital One Venture" {
		t.Errorf("alternatives: %v", rec.Alternatives)
	}
}

func TestParse_NumericEstimatedValue(t *testing.T) {
	raw := `{"primary_recommendation":{"card_name":"Citi Double Cash"},"estimated_annual_value":720}`
	rec := Parse(raw)
	if rec.EstimatedAnnualValue == nil || *rec.EstimatedAnnualValue != 720 {
		t.Errorf("estimated value: %v", rec.EstimatedAnnualValue)
	}
}

func TestParse_LabeledSections(t *testing.T) {
	raw := `Primary Recommendation: Chase Sapphire Preferred

Key Benefits:
- 3x on dining
- 2x on travel

Action Plan:
1. Apply online
2. Meet the spend requirement

Optimization Tips:
- Pay in full monthly

Estimated Annual Value: $850`

	rec := Parse(raw)
	if rec.PrimaryCard != "Chase Sapphire Preferred" {
		t.Errorf("primary card: %q", rec.PrimaryCard)
	}
	if len(rec.Benefits) != 2 {
		t.Errorf("benefits: %v", rec.Benefits)
	}
	if len(rec.ActionPlan) != 2 || rec.ActionPlan[0] != "Apply online" {
		t.Errorf("action plan: %v", rec.ActionPlan)
	}
	if len(rec.OptimizationTips) != 1 {
		t.Errorf("tips: %v", rec.OptimizationTips)
	}
	if rec.EstimatedAnnualValue == nil || *rec.EstimatedAnnualValue != 850 {
		t.Errorf("estimated value: %v", rec.EstimatedAnnualValue)
	}
	if rec.RawText != raw {
		t.Error("raw text not preserved verbatim")
	}
}

func TestParse_MarkdownHeaders(t *testing.T) {
	raw := "## Primary Recommendation\nWells Fargo Active Cash\n\n### Key Benefits\n- 2% flat cashback"
	rec := Parse(raw)
	if rec.PrimaryCard != "Wells Fargo Active Cash" {
		t.Errorf("primary card: %q", rec.PrimaryCard)
	}
	if len(rec.Benefits) != 1 {
		t.Errorf("benefits: %v", rec.Benefits)
	}
}

func TestParse_MalformedDegradesGracefully(t *testing.T) {
	for _, raw := range []string{
		"",
		"I cannot recommend a card without more information.",
		`{"broken": `,
		"{}",
	} {
		rec := Parse(raw)
		if rec.RawText != raw {
			t.Errorf("raw text not preserved for %q", raw)
		}
		if rec.PrimaryCard != "" && raw == "" {
			t.Errorf("fields populated from nothing: %+v", rec)
		}
	}
}
