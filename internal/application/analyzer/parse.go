package analyzer

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
)

const maxAISuggestions = 10

// wire shape of the model answer; scores may come back as floats
type aiAnalysis struct {
	ViabilityScore         *float64 `json:"viabilityScore"`
	CreativityPotential    *float64 `json:"creativityPotential"`
	TechnicalFeasibility   *float64 `json:"technicalFeasibility"`
	InnovationLevel        *float64 `json:"innovationLevel"`
	RiskLevel              string   `json:"riskLevel"`
	DevelopmentTime        string   `json:"developmentTime"`
	ComplexityLevel        string   `json:"complexityLevel"`
	RequiredResources      string   `json:"requiredResources"`
	SimilarConcepts        []struct {
		Name        string   `json:"name"`
		Relevance   float64  `json:"relevance"`
		Strengths   []string `json:"strengths"`
		Limitations []string `json:"limitations"`
	} `json:"similarConcepts"`
	ImprovementSuggestions []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Impact      string `json:"impact"`
		Effort      string `json:"effort"`
	} `json:"improvementSuggestions"`
	Recommendations []string `json:"recommendations"`
}

// parseAnalysis turns the model text into a result satisfying the invariants,
// or reports errMalformed.
func parseAnalysis(raw string) (*ideas.AnalysisResult, error) {
	var w aiAnalysis
	if err := json.Unmarshal([]byte(stripFences(raw)), &w); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if err := w.complete(); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}

	res := &ideas.AnalysisResult{
		ViabilityScore:       round(*w.ViabilityScore),
		CreativityPotential:  round(*w.CreativityPotential),
		TechnicalFeasibility: round(*w.TechnicalFeasibility),
		InnovationLevel:      round(*w.InnovationLevel),
		RiskLevel:            ideas.Level(w.RiskLevel),
		DevelopmentTime:      strings.TrimSpace(w.DevelopmentTime),
		ComplexityLevel:      strings.TrimSpace(w.ComplexityLevel),
		RequiredResources:    strings.TrimSpace(w.RequiredResources),
		Recommendations:      nonEmpty(w.Recommendations),
	}
	for _, c := range w.SimilarConcepts {
		res.SimilarConcepts = append(res.SimilarConcepts, ideas.SimilarConcept{
			Name:        strings.TrimSpace(c.Name),
			Relevance:   round(c.Relevance),
			Strengths:   nonEmpty(c.Strengths),
			Limitations: nonEmpty(c.Limitations),
		})
	}
	for _, s := range w.ImprovementSuggestions {
		res.ImprovementSuggestions = append(res.ImprovementSuggestions, ideas.Suggestion{
			Title:       strings.TrimSpace(s.Title),
			Description: strings.TrimSpace(s.Description),
			Impact:      ideas.Level(s.Impact),
			Effort:      ideas.Level(s.Effort),
		})
	}
	res.Normalize()
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	return res, nil
}

// complete rejects truncated answers: a missing score would otherwise read as 0
func (w *aiAnalysis) complete() error {
	for name, v := range map[string]*float64{
		"viabilityScore":       w.ViabilityScore,
		"creativityPotential":  w.CreativityPotential,
		"technicalFeasibility": w.TechnicalFeasibility,
		"innovationLevel":      w.InnovationLevel,
	} {
		if v == nil {
			return fmt.Errorf("missing %s", name)
		}
	}
	for name, v := range map[string]string{
		"developmentTime":   w.DevelopmentTime,
		"complexityLevel":   w.ComplexityLevel,
		"requiredResources": w.RequiredResources,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("missing %s", name)
		}
	}
	return nil
}

func parseSuggestions(raw string) ([]string, error) {
	var w struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &w); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	out := nonEmpty(w.Suggestions)
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no suggestions", errMalformed)
	}
	if len(out) > maxAISuggestions {
		out = out[:maxAISuggestions]
	}
	return out, nil
}

// stripFences removes a surrounding ```json fence that some models add despite instructions
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// round maps NaN, Inf and huge values to -1 so Validate rejects them
func round(f float64) int {
	if math.IsNaN(f) || math.Abs(f) > 1e6 {
		return -1
	}
	return int(math.Round(f))
}
