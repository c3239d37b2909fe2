package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/forgespace/idea-analyzer/internal/domain/ai"
	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
)

// Config holds the trip settings of the breaker
type Config struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultConfig returns the settings used when none are configured
func DefaultConfig() Config {
	return Config{
		Name:             "ai",
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// Client guards an ai.Client with a circuit breaker so a failing provider
// stops receiving traffic until Timeout elapses.
type Client struct {
	next ai.Client
	cb   *gobreaker.CircuitBreaker
}

func New(next ai.Client, cfg Config, log *zap.Logger) *Client {
	def := DefaultConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = def.MinRequests
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// the caller giving up is not a provider failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &Client{next: next, cb: cb}
}

func (c *Client) Analyze(ctx context.Context, in ideas.Input) (string, error) {
	return c.execute(func() (string, error) { return c.next.Analyze(ctx, in) })
}

func (c *Client) SuggestPhases(ctx context.Context, in ideas.Input, phase ideas.Phase) (string, error) {
	return c.execute(func() (string, error) { return c.next.SuggestPhases(ctx, in, phase) })
}

func (c *Client) State() gobreaker.State { return c.cb.State() }

// Check reports the provider unhealthy while the breaker is open, so /healthz
// shows that analyses are being served by the heuristic.
func (c *Client) Check(ctx context.Context) error {
	if c.State() == gobreaker.StateOpen {
		return ai.ErrCircuitOpen
	}
	return nil
}

func (c *Client) execute(fn func() (string, error)) (string, error) {
	out, err := c.cb.Execute(func() (any, error) { return fn() })
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", ai.ErrCircuitOpen
	}
	if err != nil {
		return "", err
	}
	return out.(string), nil
}
