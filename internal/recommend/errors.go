package recommend

import "errors"

// ErrSearchUnavailable means no usable market data could be fetched: the
// search call failed, was rate-limited, or returned zero results after all
// retries. The pipeline commits to "no fallback data", so this aborts the
// request before any model call.
var ErrSearchUnavailable = errors.New("search unavailable: no current credit card offers")

// ErrInvalidProfile marks a profile that failed validation.
var ErrInvalidProfile = errors.New("invalid profile")
