package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forgespace/idea-analyzer/internal/application/analyzer"
	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Clock lets tests pin CreatedAt
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Service records analyzer outcomes per workspace. Archive is optional.
type Service struct {
	Repo    ideas.AnalysisRepository
	Archive ideas.ReportArchive
	Clock   Clock
	Log     *zap.Logger
}

// Record stores the outcome and, when an archive is configured, uploads the
// JSON report to <workspace>/analyses/<id>.json. An archive failure does not
// undo the stored record.
func (s *Service) Record(ctx context.Context, workspace string, in ideas.Input, out analyzer.Outcome) (*ideas.Analysis, error) {
	a := &ideas.Analysis{
		ID:             ideas.AnalysisID(uuid.New().String()),
		Workspace:      workspace,
		Title:          in.Title,
		Phase:          ideas.ParsePhase(string(in.Phase)),
		Strategy:       string(out.Strategy),
		FallbackReason: string(out.FallbackReason),
		Result:         out.Result,
		CreatedAt:      s.now(),
	}
	if err := s.Repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}

	if s.Archive != nil {
		b, err := json.Marshal(a)
		if err != nil {
			return a, fmt.Errorf("marshal analysis report: %w", err)
		}
		key := fmt.Sprintf("%s/analyses/%s.json", workspace, a.ID)
		url, err := s.Archive.Put(ctx, key, b)
		if err != nil {
			s.logger().Warn("archive analysis report failed", zap.String("id", string(a.ID)), zap.Error(err))
		} else {
			s.logger().Debug("analysis report archived", zap.String("id", string(a.ID)), zap.String("url", url))
		}
	}
	return a, nil
}

// List returns one page of analyses, newest first
func (s *Service) List(ctx context.Context, workspace string, page, pageSize int) (ideas.Page, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	list, err := s.Repo.Paginate(ctx, workspace, page, pageSize)
	if err != nil {
		return ideas.Page{}, fmt.Errorf("list analyses: %w", err)
	}
	if list == nil {
		list = []*ideas.Analysis{}
	}
	return ideas.Page{Data: list, Page: page, PageSize: pageSize}, nil
}

// Get returns ideas.ErrNotFound when the analysis is missing or belongs to another workspace
func (s *Service) Get(ctx context.Context, workspace string, id ideas.AnalysisID) (*ideas.Analysis, error) {
	return s.Repo.Get(ctx, workspace, id)
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return SystemClock{}.Now()
	}
	return s.Clock.Now()
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
