package mysql

import (
	"context"
	"database/sql/driver"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
	"github.com/forgespace/idea-analyzer/internal/infra/db/dbtest"
)

var columns = []string{"id", "workspace", "title", "phase", "strategy", "fallback_reason", "result_json", "created_at"}

func sampleAnalysis() *ideas.Analysis {
	return &ideas.Analysis{
		ID:             "a1",
		Workspace:      "acme",
		Title:          "Tool library",
		Phase:          ideas.PhasePlanning,
		Strategy:       "heuristic",
		FallbackReason: "timeout",
		Result: ideas.AnalysisResult{
			ViabilityScore:  61,
			RiskLevel:       ideas.LevelMedium,
			DevelopmentTime: "3-6 months",
			SimilarConcepts: []ideas.SimilarConcept{{Name: "Peerby", Relevance: 80, Strengths: []string{"Community"}, Limitations: []string{}}},
			ImprovementSuggestions: []ideas.Suggestion{
				{Title: "Pilot", Description: "One street", Impact: ideas.LevelHigh, Effort: ideas.LevelLow},
			},
			Recommendations: []string{"Start small."},
		},
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAnalysisRepository_SaveThenGet(t *testing.T) {
	db, rec := dbtest.Open()
	defer db.Close()
	repo := NewAnalysisRepository(db)
	ctx := context.Background()
	want := sampleAnalysis()

	require.NoError(t, repo.Save(ctx, want))

	saved := rec.LastExec()
	assert.Contains(t, saved.Query, "ON DUPLICATE KEY UPDATE")
	require.Len(t, saved.Args, len(columns))
	assert.Equal(t, "planning", saved.Args[3])

	rec.SetRows(columns, saved.Args)
	got, err := repo.Get(ctx, "acme", "a1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, []driver.Value{"acme", "a1"}, rec.LastQuery().Args)
}

func TestAnalysisRepository_SaveFillsBlanks(t *testing.T) {
	db, rec := dbtest.Open()
	defer db.Close()

	require.NoError(t, NewAnalysisRepository(db).Save(context.Background(), &ideas.Analysis{ID: "a2", Strategy: "ai"}))

	args := rec.LastExec().Args
	assert.Equal(t, "-", args[1])
	assert.Equal(t, "-", args[3])
	assert.False(t, args[7].(time.Time).IsZero())
}

func TestAnalysisRepository_GetNotFound(t *testing.T) {
	db, rec := dbtest.Open()
	defer db.Close()
	rec.SetRows(columns)

	_, err := NewAnalysisRepository(db).Get(context.Background(), "acme", "missing")

	assert.ErrorIs(t, err, ideas.ErrNotFound)
}

func TestAnalysisRepository_GetCorruptResult(t *testing.T) {
	db, rec := dbtest.Open()
	defer db.Close()
	rec.SetRows(columns, []driver.Value{"a1", "acme", "t", "planning", "ai", "", "{not json", time.Now()})

	_, err := NewAnalysisRepository(db).Get(context.Background(), "acme", "a1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ideas.ErrNotFound)
}

func TestAnalysisRepository_Paginate(t *testing.T) {
	db, rec := dbtest.Open()
	defer db.Close()
	a := sampleAnalysis()
	require.NoError(t, NewAnalysisRepository(db).Save(context.Background(), a))
	row := rec.LastExec().Args
	rec.SetRows(columns, row, row)

	list, err := NewAnalysisRepository(db).Paginate(context.Background(), "acme", 3, 10)

	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, []driver.Value{"acme", int64(10), int64(20)}, rec.LastQuery().Args)
	assert.Equal(t, a.Result, list[0].Result)
}

// the schema must hold every value request validation lets through
func TestSchemaFitsValidatedInput(t *testing.T) {
	ddl, err := os.ReadFile("../../../../migrations/mysql.sql")
	require.NoError(t, err)

	widths := map[string]string{"phase": "64", "title": "200", "workspace": "64"}
	for col, width := range widths {
		m := regexp.MustCompile(`(?m)^\s*` + col + `\s+VARCHAR\((\d+)\)`).FindSubmatch(ddl)
		require.NotNil(t, m, col)
		assert.Equal(t, width, string(m[1]), col)
	}
}
