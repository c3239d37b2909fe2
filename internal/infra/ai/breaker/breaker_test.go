package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/forgespace/idea-analyzer/internal/domain/ai"
	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
)

type stubClient struct {
	calls int
	err   error
}

func (s *stubClient) Analyze(ctx context.Context, in ideas.Input) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "{}", nil
}

func (s *stubClient) SuggestPhases(ctx context.Context, in ideas.Input, phase ideas.Phase) (string, error) {
	return s.Analyze(ctx, in)
}

func TestClient_PassesThrough(t *testing.T) {
	stub := &stubClient{}
	c := New(stub, DefaultConfig(), zap.NewNop())

	out, err := c.Analyze(context.Background(), ideas.Input{})

	require.NoError(t, err)
	assert.Equal(t, "{}", out)
	assert.Equal(t, gobreaker.StateClosed, c.State())
}

func TestClient_OpensAfterFailures(t *testing.T) {
	stub := &stubClient{err: errors.New("provider down")}
	cfg := DefaultConfig()
	cfg.MinRequests = 3
	cfg.Timeout = time.Minute
	c := New(stub, cfg, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := c.Analyze(context.Background(), ideas.Input{})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ai.ErrCircuitOpen)
	}

	_, err := c.SuggestPhases(context.Background(), ideas.Input{}, ideas.PhaseInception)
	assert.ErrorIs(t, err, ai.ErrCircuitOpen)
	assert.Equal(t, 3, stub.calls)
	assert.Equal(t, gobreaker.StateOpen, c.State())
}

func TestClient_CanceledDoesNotTrip(t *testing.T) {
	stub := &stubClient{err: context.Canceled}
	cfg := DefaultConfig()
	cfg.MinRequests = 2
	c := New(stub, cfg, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, _ = c.Analyze(context.Background(), ideas.Input{})
	}
	assert.Equal(t, gobreaker.StateClosed, c.State())
	assert.Equal(t, 5, stub.calls)
}

func TestClient_Check(t *testing.T) {
	stub := &stubClient{err: errors.New("provider down")}
	cfg := DefaultConfig()
	cfg.MinRequests = 2
	cfg.Timeout = time.Minute
	c := New(stub, cfg, zap.NewNop())

	require.NoError(t, c.Check(context.Background()))

	for i := 0; i < 2; i++ {
		_, _ = c.Analyze(context.Background(), ideas.Input{})
	}
	require.Equal(t, gobreaker.StateOpen, c.State())
	assert.ErrorIs(t, c.Check(context.Background()), ai.ErrCircuitOpen)
}
