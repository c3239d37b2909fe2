package analyzer

import (
	"context"
	"errors"

	"github.com/forgespace/idea-analyzer/internal/domain/ai"
	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
)

// Strategy names the path that produced a result
type Strategy string

const (
	StrategyAI        Strategy = "ai"
	StrategyHeuristic Strategy = "heuristic"
)

// FallbackReason explains why the heuristic path was used
type FallbackReason string

const (
	ReasonNone          FallbackReason = ""
	ReasonNoCredential  FallbackReason = "no_credential"
	ReasonAIError       FallbackReason = "ai_error"
	ReasonTimeout       FallbackReason = "timeout"
	ReasonQuotaExceeded FallbackReason = "quota_exceeded"
	ReasonCircuitOpen   FallbackReason = "circuit_open"
	ReasonMalformed     FallbackReason = "malformed_response"
)

var errMalformed = errors.New("malformed ai response")

// AIOutcome is what the AI path produced: a validated result or the error that stopped it.
type AIOutcome struct {
	Result *ideas.AnalysisResult
	Err    error
}

// Outcome is either an AI result or a heuristic result, never both.
type Outcome struct {
	Result         ideas.AnalysisResult `json:"result"`
	Strategy       Strategy             `json:"strategy"`
	FallbackReason FallbackReason       `json:"fallbackReason,omitempty"`
}

// ChooseStrategy decides which result to serve. It has no side effects.
func ChooseStrategy(credentialPresent bool, outcome AIOutcome) Strategy {
	if !credentialPresent {
		return StrategyHeuristic
	}
	if outcome.Err != nil || outcome.Result == nil {
		return StrategyHeuristic
	}
	return StrategyAI
}

// ReasonFor classifies why ChooseStrategy fell back. ReasonNone when it did not.
func ReasonFor(credentialPresent bool, outcome AIOutcome) FallbackReason {
	if !credentialPresent {
		return ReasonNoCredential
	}
	err := outcome.Err
	switch {
	case err == nil && outcome.Result != nil:
		return ReasonNone
	case err == nil:
		return ReasonMalformed
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, ai.ErrQuotaExceeded):
		return ReasonQuotaExceeded
	case errors.Is(err, ai.ErrCircuitOpen):
		return ReasonCircuitOpen
	case errors.Is(err, errMalformed):
		return ReasonMalformed
	}
	return ReasonAIError
}
