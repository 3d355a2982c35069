package recommend

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/mohammad-safakhou/cardwise/models"
)

// Parse extracts structured fields from the model's free-text answer. It
// never fails: the raw text is preserved verbatim, and any field that cannot
// be recognized is simply left absent. The model's output format is not
// contractually guaranteed, so this is best-effort extraction, not a strict
// grammar.
func Parse(rawText string) models.Recommendation {
	rec := models.Recommendation{RawText: rawText}

	if parseJSON(rawText, &rec) {
		return rec
	}
	parseSections(rawText, &rec)
	return rec
}

// jsonAnswer mirrors the response schema requested by the prompt.
type jsonAnswer struct {
	Primary struct {
		CardName       string   `json:"card_name"`
		Issuer         string   `json:"issuer"`
		KeyBenefits    []string `json:"key_benefits"`
		AnnualFee      string   `json:"annual_fee"`
		RewardRate     string   `json:"reward_rate"`
		WhyRecommended string   `json:"why_recommended"`
		SignupBonus    string   `json:"current_signup_bonus"`
	} `json:"primary_recommendation"`
	ActionPlan           []string        `json:"action_plan"`
	OptimizationTips     []string        `json:"optimization_tips"`
	EstimatedAnnualValue json.RawMessage `json:"estimated_annual_value"`
	Alternatives         []struct {
		CardName string `json:"card_name"`
		Reason   string `json:"reason"`
	} `json:"alternative_options"`
}

// parseJSON tries the first JSON object embedded in the text. Models often
// wrap the object in prose or code fences, so the object is located by brace
// matching rather than decoding the whole text.
func parseJSON(text string, rec *models.Recommendation) bool {
	raw := extractFirstJSON(text)
	if raw == "" {
		return false
	}
	var parsed jsonAnswer
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return false
	}
	if parsed.Primary.CardName == "" && len(parsed.ActionPlan) == 0 && len(parsed.OptimizationTips) == 0 {
		return false
	}

	rec.PrimaryCard = strings.TrimSpace(parsed.Primary.CardName)
	rec.Issuer = strings.TrimSpace(parsed.Primary.Issuer)
	rec.AnnualFee = strings.TrimSpace(parsed.Primary.AnnualFee)
	rec.RewardRate = strings.TrimSpace(parsed.Primary.RewardRate)
	rec.WhyRecommended = strings.TrimSpace(parsed.Primary.WhyRecommended)
	rec.SignupBonus = strings.TrimSpace(parsed.Primary.SignupBonus)
	rec.Benefits = trimAll(parsed.Primary.KeyBenefits)
	rec.ActionPlan = trimAll(parsed.ActionPlan)
	rec.OptimizationTips = trimAll(parsed.OptimizationTips)
	for _, alt := range parsed.Alternatives {
		if alt.CardName == "" {
			continue
		}
		rec.Alternatives = append(rec.Alternatives, models.AlternativeOption{
			CardName: strings.TrimSpace(alt.CardName),
			Reason:   strings.TrimSpace(alt.Reason),
		})
	}

	if len(parsed.EstimatedAnnualValue) > 0 {
		var asNumber float64
		var asString string
		if err := json.Unmarshal(parsed.EstimatedAnnualValue, &asNumber); err == nil {
			rec.EstimatedAnnualValue = &asNumber
		} else if err := json.Unmarshal(parsed.EstimatedAnnualValue, &asString); err == nil {
			if v, ok := parseDollars(asString); ok {
				rec.EstimatedAnnualValue = &v
			}
		}
	}
	return true
}

// section headers recognized by the labeled-text fallback, checked in order.
var sectionAliases = []struct {
	field   string
	aliases []string
}{
	{"primary", []string{"primary recommendation", "recommended card", "primary card"}},
	{"benefits", []string{"key benefits", "benefits"}},
	{"plan", []string{"action plan", "your action plan"}},
	{"tips", []string{"optimization tips", "tips"}},
	{"value", []string{"estimated annual value", "estimated value"}},
}

// parseSections applies labeled-section heuristics: case-insensitive header
// matching tolerant of markdown decoration, list items collected until the
// next header.
func parseSections(text string, rec *models.Recommendation) {
	lines := strings.Split(text, "\n")
	current := ""

	for _, line := range lines {
		stripped := strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "#*"))
		if stripped == "" {
			continue
		}

		if field, rest, ok := matchHeader(stripped); ok {
			current = field
			switch field {
			case "primary":
				if rest != "" {
					rec.PrimaryCard = rest
					current = ""
				}
			case "value":
				if v, found := parseDollars(rest); found {
					rec.EstimatedAnnualValue = &v
					current = ""
				}
			}
			continue
		}

		switch current {
		case "primary":
			rec.PrimaryCard = strings.TrimSpace(strings.TrimLeft(stripped, "-•*0123456789. "))
			current = ""
		case "benefits":
			if item, ok := listItem(stripped); ok {
				rec.Benefits = append(rec.Benefits, item)
			}
		case "plan":
			if item, ok := listItem(stripped); ok {
				rec.ActionPlan = append(rec.ActionPlan, item)
			}
		case "tips":
			if item, ok := listItem(stripped); ok {
				rec.OptimizationTips = append(rec.OptimizationTips, item)
			}
		case "value":
			if v, found := parseDollars(stripped); found {
				rec.EstimatedAnnualValue = &v
				current = ""
			}
		}
	}
}

// matchHeader reports whether the line is a known section header and returns
// the text after the colon, if any.
func matchHeader(line string) (field, rest string, ok bool) {
	lower := strings.ToLower(line)
	for _, s := range sectionAliases {
		for _, alias := range s.aliases {
			if !strings.HasPrefix(lower, alias) {
				continue
			}
			tail := strings.TrimSpace(line[len(alias):])
			if tail != "" && !strings.HasPrefix(tail, ":") {
				continue
			}
			return s.field, strings.TrimSpace(strings.TrimPrefix(tail, ":")), true
		}
	}
	return "", "", false
}

// listItem extracts the content of a bulleted or numbered line.
func listItem(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range []string{"-", "•", "*"} {
		if strings.HasPrefix(trimmed, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, prefix)), true
		}
	}
	if re := numberedItem.FindStringSubmatch(trimmed); re != nil {
		return strings.TrimSpace(re[1]), true
	}
	return "", false
}

var (
	numberedItem = regexp.MustCompile(`^(?:step\s+)?\d+[.):]\s*(.+)$`)
	dollarAmount = regexp.MustCompile(`\$?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
)

// parseDollars finds the first dollar amount in the text.
func parseDollars(text string) (float64, bool) {
	m := dollarAmount.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func trimAll(items []string) []string {
	var out []string
	for _, it := range items {
		if t := strings.TrimSpace(it); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// extractFirstJSON finds the first top-level JSON object in a string.
func extractFirstJSON(s string) string {
	start := -1
	depth := 0
	for i, ch := range s {
		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			if depth > 0 {
				depth--
			}
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
