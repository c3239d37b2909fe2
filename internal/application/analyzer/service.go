package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/forgespace/idea-analyzer/internal/domain/ai"
	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
)

const (
	DefaultTimeout  = 20 * time.Second
	DefaultCacheTTL = 24 * time.Hour
)

// Recorder receives one event per completed operation
type Recorder interface {
	AnalysisCompleted(strategy Strategy, reason FallbackReason)
	SuggestionsCompleted(strategy Strategy, reason FallbackReason)
}

// Service scores ideas and produces phase guidance. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	// Client is nil when no AI credential is configured.
	Client   ai.Client
	Cache    ideas.Cache
	Metrics  Recorder
	Timeout  time.Duration
	CacheTTL time.Duration
	Log      *zap.Logger
}

func NewService(client ai.Client, log *zap.Logger) *Service {
	return &Service{Client: client, Log: log, Timeout: DefaultTimeout, CacheTTL: DefaultCacheTTL}
}

// AIConfigured reports whether the AI path is enabled
func (s *Service) AIConfigured() bool { return s.Client != nil }

// Analyze never fails because of the AI provider; only a heuristic result that
// breaks the result invariants is returned as an error.
func (s *Service) Analyze(ctx context.Context, in ideas.Input) (Outcome, error) {
	in = normalizeInput(in)
	credential := s.AIConfigured()

	var aiOut AIOutcome
	if credential {
		aiOut = s.analyzeWithAI(ctx, in)
	}

	out := Outcome{Strategy: ChooseStrategy(credential, aiOut)}
	if out.Strategy == StrategyAI {
		out.Result = *aiOut.Result
	} else {
		out.FallbackReason = ReasonFor(credential, aiOut)
		out.Result = Heuristic(in)
		if err := out.Result.Validate(); err != nil {
			return Outcome{}, fmt.Errorf("heuristic analysis produced invalid result: %w", err)
		}
		if aiOut.Err != nil {
			s.logger().Warn("ai analysis failed, using heuristic",
				zap.String("title", in.Title),
				zap.String("reason", string(out.FallbackReason)),
				zap.Error(aiOut.Err))
		}
	}

	s.logger().Debug("idea analyzed",
		zap.String("title", in.Title),
		zap.String("phase", string(in.Phase)),
		zap.String("strategy", string(out.Strategy)),
		zap.Int("viability", out.Result.ViabilityScore))
	if s.Metrics != nil {
		s.Metrics.AnalysisCompleted(out.Strategy, out.FallbackReason)
	}
	return out, nil
}

func (s *Service) analyzeWithAI(ctx context.Context, in ideas.Input) AIOutcome {
	key := cacheKey("analysis", in, "")
	if raw, ok := s.cacheGet(ctx, key); ok {
		if res, err := parseAnalysis(raw); err == nil {
			return AIOutcome{Result: res}
		}
	}

	raw, err := s.callAI(ctx, func(ctx context.Context) (string, error) {
		return s.Client.Analyze(ctx, in)
	})
	if err != nil {
		return AIOutcome{Err: err}
	}
	res, err := parseAnalysis(raw)
	if err != nil {
		return AIOutcome{Err: err}
	}
	if b, err := json.Marshal(res); err == nil {
		s.cacheSet(ctx, key, string(b))
	}
	return AIOutcome{Result: res}
}

// PhaseOutcome is the guidance served for a phase and how it was produced
type PhaseOutcome struct {
	Suggestions    []string       `json:"suggestions"`
	Strategy       Strategy       `json:"strategy"`
	FallbackReason FallbackReason `json:"fallbackReason,omitempty"`
}

// SuggestPhases returns non-empty guidance for phase, from the AI when it
// answers usefully and from the template table otherwise.
func (s *Service) SuggestPhases(ctx context.Context, in ideas.Input, phase ideas.Phase) PhaseOutcome {
	in = normalizeInput(in)
	phase = ideas.ParsePhase(string(phase))
	credential := s.AIConfigured()

	var (
		suggestions []string
		err         error
	)
	if credential {
		suggestions, err = s.suggestWithAI(ctx, in, phase)
	}

	var out PhaseOutcome
	if credential && err == nil {
		out = PhaseOutcome{Suggestions: suggestions, Strategy: StrategyAI}
	} else {
		out = PhaseOutcome{
			Suggestions:    GeneratePhaseSuggestions(in, phase),
			Strategy:       StrategyHeuristic,
			FallbackReason: ReasonFor(credential, AIOutcome{Err: err}),
		}
		if err != nil {
			s.logger().Warn("ai phase suggestions failed, using templates",
				zap.String("phase", string(phase)),
				zap.String("reason", string(out.FallbackReason)),
				zap.Error(err))
		}
	}
	if s.Metrics != nil {
		s.Metrics.SuggestionsCompleted(out.Strategy, out.FallbackReason)
	}
	return out
}

func (s *Service) suggestWithAI(ctx context.Context, in ideas.Input, phase ideas.Phase) ([]string, error) {
	key := cacheKey("phases", in, phase)
	if raw, ok := s.cacheGet(ctx, key); ok {
		if out, err := parseSuggestions(raw); err == nil {
			return out, nil
		}
	}
	raw, err := s.callAI(ctx, func(ctx context.Context) (string, error) {
		return s.Client.SuggestPhases(ctx, in, phase)
	})
	if err != nil {
		return nil, err
	}
	out, err := parseSuggestions(raw)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(map[string][]string{"suggestions": out}); err == nil {
		s.cacheSet(ctx, key, string(b))
	}
	return out, nil
}

// callAI makes the single bounded outbound call. A deadline hit is reported as
// context.DeadlineExceeded whatever the transport wrapped it in.
func (s *Service) callAI(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := fn(ctx)
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return raw, err
}

func (s *Service) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.Cache == nil {
		return "", false
	}
	return s.Cache.Get(ctx, key)
}

func (s *Service) cacheSet(ctx context.Context, key, value string) {
	if s.Cache == nil {
		return
	}
	ttl := s.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if err := s.Cache.Set(ctx, key, value, ttl); err != nil {
		s.logger().Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// cacheKey digests the normalized request so equal ideas share a cache entry
func cacheKey(kind string, in ideas.Input, phase ideas.Phase) string {
	h := xxhash.New()
	for _, part := range []string{kind, in.Title, in.Description, string(in.Phase), string(phase), strings.Join(in.Tags, "\x1f")} {
		_, _ = h.WriteString(part)
		_, _ = h.WriteString("\x00")
	}
	return fmt.Sprintf("forgespace:ai:%s:%016x", kind, h.Sum64())
}
