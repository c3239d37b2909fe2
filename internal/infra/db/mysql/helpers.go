package mysql

import (
	"encoding/json"
	"strings"

	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
)

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func decodeResult(raw string, a *ideas.Analysis) error {
	if err := json.Unmarshal([]byte(raw), &a.Result); err != nil {
		return err
	}
	a.Result.Normalize()
	return nil
}
