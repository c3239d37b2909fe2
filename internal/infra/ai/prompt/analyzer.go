package prompt

import (
	"fmt"
	"strings"

	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
)

// GetAnalysisSystemPrompt provides strict directions and schema for JSON output.
func GetAnalysisSystemPrompt() string {
	return `You are a senior product strategist reviewing early-stage ideas. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- All scores are integers between 0 and 100.
- riskLevel, impact and effort use exactly one of: Low, Medium, High.
- similarConcepts: 1 to 3 existing products or approaches comparable to the idea.
- improvementSuggestions: 1 to 3 concrete, actionable items.
- recommendations: 2 to 4 short sentences.
- Arrays may be empty but must never be null.

Schema (example with empty values):
{
  "viabilityScore": 0,
  "creativityPotential": 0,
  "technicalFeasibility": 0,
  "innovationLevel": 0,
  "riskLevel": "<Low|Medium|High>",
  "developmentTime": "<string>",
  "complexityLevel": "<string>",
  "requiredResources": "<string>",
  "similarConcepts": [
    {"name": "<string>", "relevance": 0, "strengths": ["<string>"], "limitations": ["<string>"]}
  ],
  "improvementSuggestions": [
    {"title": "<string>", "description": "<string>", "impact": "<Low|Medium|High>", "effort": "<Low|Medium|High>"}
  ],
  "recommendations": ["<string>"]
}`
}

// GetAnalysisUserPrompt embeds the idea fields into the user message.
func GetAnalysisUserPrompt(in ideas.Input) string {
	var b strings.Builder
	b.WriteString("Analyze this idea and respond with the JSON per schema.\n\n")
	writeIdea(&b, in)
	return b.String()
}

func writeIdea(b *strings.Builder, in ideas.Input) {
	fmt.Fprintf(b, "Title: %s\n", in.Title)
	fmt.Fprintf(b, "Description: %s\n", in.Description)
	fmt.Fprintf(b, "Phase: %s\n", in.Phase.Label())
	if len(in.Tags) > 0 {
		fmt.Fprintf(b, "Tags: %s\n", strings.Join(in.Tags, ", "))
	} else {
		b.WriteString("Tags: none\n")
	}
}
