package ideas

import (
	"context"
	"time"
)

// AnalysisRepository port for persisting and querying analyses
type AnalysisRepository interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, workspace string, id AnalysisID) (*Analysis, error)
	Paginate(ctx context.Context, workspace string, page, pageSize int) ([]*Analysis, error)
}

// ReportArchive stores rendered analysis reports outside the database
type ReportArchive interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}

// Cache holds AI responses keyed by a digest of the request
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
