package postgres

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
	"github.com/forgespace/idea-analyzer/internal/infra/db/dbtest"
)

var columns = []string{"id", "workspace", "title", "phase", "strategy", "fallback_reason", "result_json", "created_at"}

func TestAnalysisRepository_SaveThenGet(t *testing.T) {
	db, rec := dbtest.Open()
	defer db.Close()
	repo := NewAnalysisRepository(db)
	ctx := context.Background()
	want := &ideas.Analysis{
		ID:        "a1",
		Workspace: "acme",
		Title:     "Budget buddy",
		Phase:     "someday-maybe",
		Strategy:  "ai",
		Result: ideas.AnalysisResult{
			ViabilityScore:         70,
			RiskLevel:              ideas.LevelLow,
			SimilarConcepts:        []ideas.SimilarConcept{},
			ImprovementSuggestions: []ideas.Suggestion{},
			Recommendations:        []string{"Talk to couples."},
		},
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, repo.Save(ctx, want))

	saved := rec.LastExec()
	assert.Contains(t, saved.Query, "ON CONFLICT (id) DO UPDATE")
	assert.Contains(t, saved.Query, "$8")

	rec.SetRows(columns, saved.Args)
	got, err := repo.Get(ctx, "acme", "a1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAnalysisRepository_GetNotFound(t *testing.T) {
	db, rec := dbtest.Open()
	defer db.Close()
	rec.SetRows(columns)

	_, err := NewAnalysisRepository(db).Get(context.Background(), "acme", "missing")

	assert.ErrorIs(t, err, ideas.ErrNotFound)
}

func TestAnalysisRepository_PaginateDefaults(t *testing.T) {
	db, rec := dbtest.Open()
	defer db.Close()
	rec.SetRows(columns)

	list, err := NewAnalysisRepository(db).Paginate(context.Background(), "acme", 0, 0)

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.Equal(t, []driver.Value{"acme", int64(20), int64(0)}, rec.LastQuery().Args)
}
