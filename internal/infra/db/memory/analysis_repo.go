package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
)

// AnalysisRepository keeps analyses in process memory. Used when no database
// driver is configured and in tests.
type AnalysisRepository struct {
	mu   sync.RWMutex
	data map[ideas.AnalysisID]ideas.Analysis
}

func NewAnalysisRepository() *AnalysisRepository {
	return &AnalysisRepository{data: make(map[ideas.AnalysisID]ideas.Analysis)}
}

func (r *AnalysisRepository) Save(ctx context.Context, a *ideas.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[a.ID] = *a
	return nil
}

func (r *AnalysisRepository) Get(ctx context.Context, workspace string, id ideas.AnalysisID) (*ideas.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.data[id]
	if !ok || a.Workspace != workspace {
		return nil, ideas.ErrNotFound
	}
	return &a, nil
}

// Paginate orders by CreatedAt desc, ID desc like the SQL repositories
func (r *AnalysisRepository) Paginate(ctx context.Context, workspace string, page, pageSize int) ([]*ideas.Analysis, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	r.mu.RLock()
	list := make([]*ideas.Analysis, 0, len(r.data))
	for _, a := range r.data {
		if a.Workspace == workspace {
			a := a
			list = append(list, &a)
		}
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})

	offset := (page - 1) * pageSize
	if offset >= len(list) {
		return []*ideas.Analysis{}, nil
	}
	end := min(offset+pageSize, len(list))
	return list[offset:end], nil
}
