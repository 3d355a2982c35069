package models

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// CreditScore is the user's credit score bracket.
type CreditScore string

const (
	CreditScorePoor      CreditScore = "poor"
	CreditScoreFair      CreditScore = "fair"
	CreditScoreGood      CreditScore = "good"
	CreditScoreExcellent CreditScore = "excellent"
)

// Valid reports whether the bracket is one of the known values.
func (c CreditScore) Valid() bool {
	switch c {
	case CreditScorePoor, CreditScoreFair, CreditScoreGood, CreditScoreExcellent:
		return true
	}
	return false
}

// Display returns the bracket label shown to users and to the LLM.
func (c CreditScore) Display() string {
	switch c {
	case CreditScorePoor:
		return "Poor (600-649)"
	case CreditScoreFair:
		return "Fair (650-699)"
	case CreditScoreGood:
		return "Good (700-749)"
	case CreditScoreExcellent:
		return "Excellent (750+)"
	default:
		return string(c)
	}
}

// Goal is a financial objective driving the recommendation.
type Goal string

const (
	GoalCashback    Goal = "cashback"
	GoalTravel      Goal = "travel"
	GoalBuildCredit Goal = "build_credit"
	GoalNoAnnualFee Goal = "no_annual_fee"
	GoalSignupBonus Goal = "signup_bonus"
	GoalLowInterest Goal = "low_interest"
)

// AllGoals lists the supported goals in canonical order. Prompt and query
// building iterate this order so output does not depend on request ordering.
var AllGoals = []Goal{GoalCashback, GoalTravel, GoalBuildCredit, GoalNoAnnualFee, GoalSignupBonus, GoalLowInterest}

// Display returns the goal label shown to users and to the LLM.
func (g Goal) Display() string {
	switch g {
	case GoalCashback:
		return "Maximize cashback"
	case GoalTravel:
		return "Earn travel rewards"
	case GoalBuildCredit:
		return "Build credit"
	case GoalNoAnnualFee:
		return "No annual fees"
	case GoalSignupBonus:
		return "Sign-up bonuses"
	case GoalLowInterest:
		return "Low interest rates"
	default:
		return string(g)
	}
}

func (g Goal) Valid() bool {
	for _, k := range AllGoals {
		if g == k {
			return true
		}
	}
	return false
}

const (
	MinMonthlySpend = 500
	MaxMonthlySpend = 20000
)

// Profile is the user's financial profile for a single recommendation
// request. It is constructed once, validated, and discarded after use.
type Profile struct {
	MonthlySpend       float64            `json:"monthly_spend"`
	CreditScore        CreditScore        `json:"credit_score"`
	Goals              []Goal             `json:"goals"`
	CategoryAllocation map[string]float64 `json:"category_allocation"`
}

// Validate checks the declared ranges and enums.
func (p Profile) Validate() error {
	if p.MonthlySpend < MinMonthlySpend || p.MonthlySpend > MaxMonthlySpend {
		return fmt.Errorf("monthly spend %.0f out of range [%d, %d]", p.MonthlySpend, MinMonthlySpend, MaxMonthlySpend)
	}
	if !p.CreditScore.Valid() {
		return fmt.Errorf("unknown credit score bracket %q", p.CreditScore)
	}
	if len(p.Goals) == 0 {
		return fmt.Errorf("at least one goal is required")
	}
	for _, g := range p.Goals {
		if !g.Valid() {
			return fmt.Errorf("unknown goal %q", g)
		}
	}
	if len(p.CategoryAllocation) == 0 {
		return fmt.Errorf("category allocation is required")
	}
	var sum float64
	for name, pct := range p.CategoryAllocation {
		if pct < 0 {
			return fmt.Errorf("category %q has negative allocation", name)
		}
		sum += pct
	}
	if math.Abs(sum-100) > 0.01 {
		return fmt.Errorf("category allocation sums to %.2f, want 100", sum)
	}
	return nil
}

// HasGoal reports whether the profile includes the given goal.
func (p Profile) HasGoal(g Goal) bool {
	for _, pg := range p.Goals {
		if pg == g {
			return true
		}
	}
	return false
}

// Categories returns allocation category names in sorted order.
func (p Profile) Categories() []string {
	names := make([]string, 0, len(p.CategoryAllocation))
	for name := range p.CategoryAllocation {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OfferSnippet is one search hit used as grounding context for the prompt.
// SourceRank preserves the provider's result ordering.
type OfferSnippet struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	SourceRank int    `json:"source_rank"`
}

// ErrorKind classifies a failed model attempt.
type ErrorKind string

const (
	// ErrorKindTransient covers timeouts, rate limits, 5xx and network
	// errors; trying a different model may succeed.
	ErrorKindTransient ErrorKind = "transient"
	// ErrorKindPermanent covers credential and malformed-request errors
	// that will recur regardless of model.
	ErrorKindPermanent ErrorKind = "permanent"
)

// ClassifyStatus maps a completion-provider HTTP status to an error kind.
func ClassifyStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return ErrorKindPermanent
	case status == 400:
		return ErrorKindPermanent
	case status == 408 || status == 429 || status >= 500:
		return ErrorKindTransient
	default:
		return ErrorKindTransient
	}
}

// ProviderError is a classified completion-provider failure.
type ProviderError struct {
	Status  int
	Kind    ErrorKind
	Message string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider status %d: %s", e.Status, e.Message)
	}
	return e.Message
}

// ModelAttempt records the outcome of one model trial in an orchestration
// run. Attempts are kept for diagnostics only, never persisted.
type ModelAttempt struct {
	Model     string        `json:"model"`
	Succeeded bool          `json:"succeeded"`
	ErrorKind ErrorKind     `json:"error_kind,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// AlternativeOption is a secondary card suggestion.
type AlternativeOption struct {
	CardName string `json:"card_name"`
	Reason   string `json:"reason"`
}

// Recommendation is the parsed model answer. RawText is always populated;
// every structured field is best-effort and may be absent.
type Recommendation struct {
	PrimaryCard          string              `json:"primary_card,omitempty"`
	Issuer               string              `json:"issuer,omitempty"`
	AnnualFee            string              `json:"annual_fee,omitempty"`
	RewardRate           string              `json:"reward_rate,omitempty"`
	WhyRecommended       string              `json:"why_recommended,omitempty"`
	SignupBonus          string              `json:"signup_bonus,omitempty"`
	Benefits             []string            `json:"benefits,omitempty"`
	ActionPlan           []string            `json:"action_plan,omitempty"`
	OptimizationTips     []string            `json:"optimization_tips,omitempty"`
	EstimatedAnnualValue *float64            `json:"estimated_annual_value,omitempty"`
	Alternatives         []AlternativeOption `json:"alternatives,omitempty"`
	RawText              string              `json:"raw_text"`
}
