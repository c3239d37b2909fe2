package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrEmptyResponse indicates the provider answered without any completion choice.
var ErrEmptyResponse = errors.New("ai returned no choices")

// ErrCircuitOpen is returned while the breaker in front of the provider is open.
var ErrCircuitOpen = errors.New("ai circuit open")
