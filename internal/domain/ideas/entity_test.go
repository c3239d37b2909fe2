package ideas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validResult() AnalysisResult {
	return AnalysisResult{
		ViabilityScore:         50,
		CreativityPotential:    60,
		TechnicalFeasibility:   70,
		InnovationLevel:        80,
		RiskLevel:              LevelMedium,
		SimilarConcepts:        []SimilarConcept{{Name: "X", Relevance: 50, Strengths: []string{}, Limitations: []string{}}},
		ImprovementSuggestions: []Suggestion{{Title: "Y", Impact: LevelHigh, Effort: LevelLow}},
		Recommendations:        []string{"Z"},
	}
}

func TestParsePhase(t *testing.T) {
	tests := map[string]Phase{
		"inception":       PhaseInception,
		" Development ":   PhaseRefinement,
		"validation":      PhasePlanning,
		"execution-ready": PhaseExecutionReady,
		"EXECUTION_READY": PhaseExecutionReady,
		"Launched":        Phase("launched"),
	}
	for in, want := range tests {
		assert.Equal(t, want, ParsePhase(in), in)
	}
	assert.True(t, PhasePlanning.Known())
	assert.False(t, Phase("launched").Known())
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("hIgH")
	require.NoError(t, err)
	assert.Equal(t, LevelHigh, l)

	_, err = ParseLevel("extreme")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	r := validResult()
	require.NoError(t, r.Validate())

	bad := []func(*AnalysisResult){
		func(r *AnalysisResult) { r.ViabilityScore = 101 },
		func(r *AnalysisResult) { r.InnovationLevel = -1 },
		func(r *AnalysisResult) { r.RiskLevel = "Severe" },
		func(r *AnalysisResult) { r.Recommendations = nil },
		func(r *AnalysisResult) { r.SimilarConcepts[0].Relevance = 200 },
		func(r *AnalysisResult) { r.SimilarConcepts[0].Strengths = nil },
		func(r *AnalysisResult) { r.ImprovementSuggestions[0].Effort = "" },
	}
	for i, mutate := range bad {
		r := validResult()
		mutate(&r)
		assert.Error(t, r.Validate(), "case %d", i)
	}
}

func TestNormalize(t *testing.T) {
	r := AnalysisResult{
		RiskLevel:              "low",
		SimilarConcepts:        []SimilarConcept{{Name: "X"}},
		ImprovementSuggestions: []Suggestion{{Title: "Y", Impact: "medium", Effort: "HIGH"}},
	}
	r.Normalize()

	require.NoError(t, r.Validate())
	assert.Equal(t, LevelLow, r.RiskLevel)
	assert.Equal(t, LevelMedium, r.ImprovementSuggestions[0].Impact)
	assert.Equal(t, LevelHigh, r.ImprovementSuggestions[0].Effort)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"recommendations":[]`)
	assert.Contains(t, string(b), `"strengths":[]`)
	assert.NotContains(t, string(b), "null")
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-5))
	assert.Equal(t, 100, Clamp(150))
	assert.Equal(t, 42, Clamp(42))
}
