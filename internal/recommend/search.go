package recommend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mohammad-safakhou/cardwise/internal/telemetry"
	"github.com/mohammad-safakhou/cardwise/models"
	"github.com/mohammad-safakhou/cardwise/tools/web_search"
	wsmodels "github.com/mohammad-safakhou/cardwise/tools/web_search/models"
	"github.com/mohammad-safakhou/cardwise/utils"
)

const snippetTextLimit = 300

// OfferSearch fetches current credit-card offer snippets for a profile.
// Every recommendation request performs a fresh search: recency over
// efficiency, no cached market data.
type OfferSearch struct {
	searcher   web_search.WebSearcher
	provider   string
	maxResults int
	retries    int
	retryDelay time.Duration
	timeout    time.Duration
	logger     *log.Logger
	telemetry  *telemetry.Telemetry
}

// NewOfferSearch wraps a web searcher with the retry policy from config.
func NewOfferSearch(searcher web_search.WebSearcher, provider string, maxResults, retries int, retryDelay, timeout time.Duration, tele *telemetry.Telemetry) *OfferSearch {
	if maxResults <= 0 {
		maxResults = 8
	}
	if retries < 0 {
		retries = 0
	}
	if retryDelay == 0 {
		retryDelay = 2 * time.Second
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &OfferSearch{
		searcher:   searcher,
		provider:   provider,
		maxResults: maxResults,
		retries:    retries,
		retryDelay: retryDelay,
		timeout:    timeout,
		logger:     log.New(log.Writer(), "[SEARCH] ", log.LstdFlags),
		telemetry:  tele,
	}
}

// BuildQuery renders the fixed query template from the profile's goals and
// credit bracket. Goals are folded in canonical order so the query is
// deterministic for a given profile.
func BuildQuery(p models.Profile) string {
	var terms []string
	for _, g := range models.AllGoals {
		if !p.HasGoal(g) {
			continue
		}
		switch g {
		case models.GoalCashback:
			terms = append(terms, "cashback")
		case models.GoalTravel:
			terms = append(terms, "travel rewards")
		case models.GoalBuildCredit:
			terms = append(terms, "credit building")
		case models.GoalNoAnnualFee:
			terms = append(terms, "no annual fee")
		case models.GoalSignupBonus:
			terms = append(terms, "signup bonus")
		case models.GoalLowInterest:
			terms = append(terms, "low interest")
		}
	}
	q := "best " + strings.Join(terms, " ") + " credit cards current offers"

	switch p.CreditScore {
	case models.CreditScoreExcellent:
		q += " premium excellent credit"
	case models.CreditScoreGood:
		q += " good credit score"
	case models.CreditScoreFair:
		q += " fair credit"
	case models.CreditScorePoor:
		q += " bad credit"
	}
	return q
}

// Search issues the offer search with the bounded retry policy. A
// rate-limit signal or an empty result set waits the fixed delay and tries
// again up to the configured retry count; any other network error fails
// immediately. All failure paths surface ErrSearchUnavailable.
func (s *OfferSearch) Search(ctx context.Context, profile models.Profile) ([]models.OfferSnippet, error) {
	query := BuildQuery(profile)
	start := time.Now()

	var lastErr error
	tries := s.retries + 1
	for attempt := 0; attempt < tries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, ctx.Err())
			}
		}

		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		results, err := s.searcher.Discover(cctx, query, s.maxResults)
		cancel()

		if err != nil {
			lastErr = err
			var se *wsmodels.StatusError
			if errors.As(err, &se) && se.RateLimited() {
				s.logger.Printf("rate limited (attempt %d/%d), retrying in %v", attempt+1, tries, s.retryDelay)
				continue
			}
			break
		}
		if len(results) == 0 {
			lastErr = errors.New("zero results")
			s.logger.Printf("no results for %q (attempt %d/%d)", query, attempt+1, tries)
			continue
		}

		snippets := make([]models.OfferSnippet, 0, len(results))
		for i, r := range results {
			snippets = append(snippets, models.OfferSnippet{
				Title:      strings.TrimSpace(r.Title),
				Text:       utils.Truncate(strings.TrimSpace(r.Snippet), snippetTextLimit),
				SourceRank: i,
			})
		}
		s.record(query, time.Since(start), true, len(snippets))
		return snippets, nil
	}

	s.record(query, time.Since(start), false, 0)
	return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, lastErr)
}

func (s *OfferSearch) record(query string, d time.Duration, success bool, results int) {
	if s.telemetry == nil {
		return
	}
	s.telemetry.RecordSearchEvent(telemetry.SearchEvent{
		Provider: s.provider,
		Query:    query,
		Duration: d,
		Success:  success,
		Results:  results,
	})
}
