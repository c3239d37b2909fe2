package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *ideas.Analysis) error {
	const q = `
INSERT INTO idea_analyses
  (id, workspace, title, phase, strategy, fallback_reason, result_json, created_at)
VALUES (?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  strategy=VALUES(strategy), fallback_reason=VALUES(fallback_reason), result_json=VALUES(result_json);
`
	result, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx, q,
		a.ID, stringOrDash(a.Workspace), stringOrDash(a.Title), stringOrDash(string(a.Phase)),
		a.Strategy, a.FallbackReason, string(result), createdAt,
	)
	return err
}

func (r *AnalysisRepository) Get(ctx context.Context, workspace string, id ideas.AnalysisID) (*ideas.Analysis, error) {
	const q = `
SELECT id, workspace, title, phase, strategy, fallback_reason, result_json, created_at
FROM idea_analyses
WHERE workspace=? AND id=? LIMIT 1;
`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, workspace, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ideas.ErrNotFound
	}
	return a, err
}

// Paginate returns a page of analysis records ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, workspace string, page, pageSize int) ([]*ideas.Analysis, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, workspace, title, phase, strategy, fallback_reason, result_json, created_at
FROM idea_analyses
WHERE workspace=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, workspace, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	out := []*ideas.Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*ideas.Analysis, error) {
	var (
		a      ideas.Analysis
		result string
	)
	if err := row.Scan(&a.ID, &a.Workspace, &a.Title, &a.Phase, &a.Strategy, &a.FallbackReason, &result, &a.CreatedAt); err != nil {
		return nil, err
	}
	if err := decodeResult(result, &a); err != nil {
		return nil, fmt.Errorf("decode result of %s: %w", a.ID, err)
	}
	return &a, nil
}
