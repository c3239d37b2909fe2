package ai

import (
	"context"

	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
)

// Client returns the raw completion text; callers own parsing and validation.
type Client interface {
	Analyze(ctx context.Context, in ideas.Input) (string, error)
	SuggestPhases(ctx context.Context, in ideas.Input, phase ideas.Phase) (string, error)
}
