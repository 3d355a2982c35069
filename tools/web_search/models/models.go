package models

import "fmt"

// Result is one web search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// StatusError reports a non-2xx response from a search provider. Callers
// inspect Code to detect rate limiting.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search provider status %d: %s", e.Code, e.Body)
}

// RateLimited reports whether the error is a provider rate-limit signal.
func (e *StatusError) RateLimited() bool { return e.Code == 429 }
