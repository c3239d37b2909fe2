package ideas

import (
	"fmt"
	"strings"
)

// Phase is a stage in an idea's lifecycle
type Phase string

const (
	PhaseInception      Phase = "inception"
	PhaseRefinement     Phase = "refinement"
	PhasePlanning       Phase = "planning"
	PhaseExecutionReady Phase = "execution_ready"
)

// phaseAliases maps the names used by older clients onto canonical phases
var phaseAliases = map[string]Phase{
	"inception":       PhaseInception,
	"idea":            PhaseInception,
	"refinement":      PhaseRefinement,
	"development":     PhaseRefinement,
	"planning":        PhasePlanning,
	"validation":      PhasePlanning,
	"execution_ready": PhaseExecutionReady,
	"execution-ready": PhaseExecutionReady,
	"ready":           PhaseExecutionReady,
}

// ParsePhase returns the canonical phase for s. Unrecognized values are kept
// verbatim (lowercased) so callers can still fall back to generic guidance.
func ParsePhase(s string) Phase {
	key := strings.ToLower(strings.TrimSpace(s))
	if p, ok := phaseAliases[key]; ok {
		return p
	}
	return Phase(key)
}

// Known reports whether p is one of the canonical phases
func (p Phase) Known() bool {
	switch p {
	case PhaseInception, PhaseRefinement, PhasePlanning, PhaseExecutionReady:
		return true
	}
	return false
}

// Label is the human readable phase name used in generated text
func (p Phase) Label() string {
	switch p {
	case PhaseExecutionReady:
		return "execution ready"
	case "":
		return "unspecified"
	}
	return string(p)
}

// Input is the idea submitted for analysis. It is never persisted by the analyzer.
type Input struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Phase       Phase    `json:"phase"`
	Tags        []string `json:"tags"`
}

// Level is the closed Low/Medium/High scale used by risk, impact and effort
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// ParseLevel accepts any casing of Low/Medium/High
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return LevelLow, nil
	case "medium":
		return LevelMedium, nil
	case "high":
		return LevelHigh, nil
	}
	return "", fmt.Errorf("invalid level %q", s)
}

func (l Level) Valid() bool {
	return l == LevelLow || l == LevelMedium || l == LevelHigh
}

type SimilarConcept struct {
	Name        string   `json:"name"`
	Relevance   int      `json:"relevance"`
	Strengths   []string `json:"strengths"`
	Limitations []string `json:"limitations"`
}

type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      Level  `json:"impact"`
	Effort      Level  `json:"effort"`
}

// AnalysisResult is produced fresh per request and never mutated after construction
type AnalysisResult struct {
	ViabilityScore         int              `json:"viabilityScore"`
	CreativityPotential    int              `json:"creativityPotential"`
	TechnicalFeasibility   int              `json:"technicalFeasibility"`
	InnovationLevel        int              `json:"innovationLevel"`
	RiskLevel              Level            `json:"riskLevel"`
	DevelopmentTime        string           `json:"developmentTime"`
	ComplexityLevel        string           `json:"complexityLevel"`
	RequiredResources      string           `json:"requiredResources"`
	SimilarConcepts        []SimilarConcept `json:"similarConcepts"`
	ImprovementSuggestions []Suggestion     `json:"improvementSuggestions"`
	Recommendations        []string         `json:"recommendations"`
}

// Normalize replaces nil slices with empty ones and canonicalises enum casing.
func (r *AnalysisResult) Normalize() {
	if l, err := ParseLevel(string(r.RiskLevel)); err == nil {
		r.RiskLevel = l
	}
	if r.SimilarConcepts == nil {
		r.SimilarConcepts = []SimilarConcept{}
	}
	for i := range r.SimilarConcepts {
		c := &r.SimilarConcepts[i]
		if c.Strengths == nil {
			c.Strengths = []string{}
		}
		if c.Limitations == nil {
			c.Limitations = []string{}
		}
	}
	if r.ImprovementSuggestions == nil {
		r.ImprovementSuggestions = []Suggestion{}
	}
	for i := range r.ImprovementSuggestions {
		s := &r.ImprovementSuggestions[i]
		if l, err := ParseLevel(string(s.Impact)); err == nil {
			s.Impact = l
		}
		if l, err := ParseLevel(string(s.Effort)); err == nil {
			s.Effort = l
		}
	}
	if r.Recommendations == nil {
		r.Recommendations = []string{}
	}
}

// Validate checks the score ranges, the closed enumerations and that no slice is nil.
func (r *AnalysisResult) Validate() error {
	scores := []struct {
		name string
		v    int
	}{
		{"viabilityScore", r.ViabilityScore},
		{"creativityPotential", r.CreativityPotential},
		{"technicalFeasibility", r.TechnicalFeasibility},
		{"innovationLevel", r.InnovationLevel},
	}
	for _, s := range scores {
		if !inRange(s.v) {
			return fmt.Errorf("%s out of range: %d", s.name, s.v)
		}
	}
	if !r.RiskLevel.Valid() {
		return fmt.Errorf("invalid riskLevel %q", r.RiskLevel)
	}
	if r.SimilarConcepts == nil || r.ImprovementSuggestions == nil || r.Recommendations == nil {
		return fmt.Errorf("result contains nil arrays")
	}
	for _, c := range r.SimilarConcepts {
		if !inRange(c.Relevance) {
			return fmt.Errorf("similar concept %q relevance out of range: %d", c.Name, c.Relevance)
		}
		if c.Strengths == nil || c.Limitations == nil {
			return fmt.Errorf("similar concept %q contains nil arrays", c.Name)
		}
	}
	for _, s := range r.ImprovementSuggestions {
		if !s.Impact.Valid() || !s.Effort.Valid() {
			return fmt.Errorf("suggestion %q has invalid impact/effort", s.Title)
		}
	}
	return nil
}

func inRange(v int) bool { return v >= 0 && v <= 100 }

// Clamp bounds a score to [0,100]
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
