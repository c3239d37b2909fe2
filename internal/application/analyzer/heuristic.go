package analyzer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
)

// features are the text signals the heuristic scores from
type features struct {
	length     int
	sentences  int
	tags       int
	innovation int
	market     int
	complexity int
	maturity   int
	category   string
}

func extractFeatures(in ideas.Input) features {
	text := normalizedText(in.Title + " " + in.Description + " " + strings.Join(in.Tags, " "))
	f := features{
		length:     utf8.RuneCountInString(strings.TrimSpace(in.Description)),
		sentences:  countSentences(in.Description),
		tags:       len(in.Tags),
		innovation: countHits(text, innovationKeywords),
		market:     countHits(text, marketKeywords),
		complexity: countHits(text, complexityKeywords),
		maturity:   phaseMaturity[in.Phase],
		category:   categoryGeneral,
	}
	for _, rule := range categoryRules {
		if countHits(text, rule.keywords) > 0 {
			f.category = rule.category
			break
		}
	}
	return f
}

// Heuristic scores an idea deterministically from its text features.
func Heuristic(in ideas.Input) ideas.AnalysisResult {
	in = normalizeInput(in)
	f := extractFeatures(in)

	viability := viabilityBase +
		min(f.length/viabilityLengthDiv, viabilityLengthCap) +
		viabilityPerTag*min(f.tags, tagCap) +
		viabilityPerMarket*min(f.market, viabilityMarketCap) +
		f.maturity
	creativity := creativityBase +
		creativityPerInnov*min(f.innovation, innovationCap) +
		creativityPerTag*min(f.tags, tagCap) +
		min(f.length/creativityLengthDiv, creativityLengthCap) +
		creativityPerSentenc*min(f.sentences, creativitySentCap)
	feasibility := feasibilityBase -
		feasibilityPerCompl*min(f.complexity, feasibilityComplCap) +
		f.maturity
	if f.length > feasibilityLongDesc {
		feasibility -= feasibilityLongPen
	}
	innovation := innovationBase +
		innovationPerInnov*min(f.innovation, innovationCap) +
		innovationPerTag*min(f.tags, tagCap)
	if f.length >= innovationDetailLen {
		innovation += innovationDetailBon
	}

	res := ideas.AnalysisResult{
		ViabilityScore:       ideas.Clamp(viability),
		CreativityPotential:  ideas.Clamp(creativity),
		TechnicalFeasibility: ideas.Clamp(feasibility),
		InnovationLevel:      ideas.Clamp(innovation),
	}
	res.RiskLevel = riskFor((res.ViabilityScore + res.TechnicalFeasibility) / 2)
	band := effortFor(res.TechnicalFeasibility)
	res.ComplexityLevel = band.complexity
	res.DevelopmentTime = band.duration
	res.RequiredResources = band.resources
	res.SimilarConcepts = similarConcepts(f)
	res.ImprovementSuggestions = improvementSuggestions(in.Phase, f)
	res.Recommendations = recommendations(in, res)
	return res
}

func riskFor(score int) ideas.Level {
	for _, b := range riskBands {
		if score >= b.min {
			return b.level
		}
	}
	return ideas.LevelHigh
}

func effortFor(feasibility int) effortBand {
	for _, b := range effortBands {
		if feasibility >= b.minFeasibility {
			return b
		}
	}
	return effortBands[len(effortBands)-1]
}

// similarConcepts picks 1-3 entries; more detail earns more comparisons
func similarConcepts(f features) []ideas.SimilarConcept {
	n := 1
	if f.length >= 80 {
		n++
	}
	if f.tags >= 2 {
		n++
	}
	pool := similarConceptPool[f.category]
	n = min(n, len(pool))
	out := make([]ideas.SimilarConcept, 0, n)
	for _, c := range pool[:n] {
		out = append(out, ideas.SimilarConcept{
			Name:        c.Name,
			Relevance:   c.Relevance,
			Strengths:   append([]string{}, c.Strengths...),
			Limitations: append([]string{}, c.Limitations...),
		})
	}
	return out
}

// improvementSuggestions returns at most 3 suggestions for the phase
func improvementSuggestions(phase ideas.Phase, f features) []ideas.Suggestion {
	pool, ok := improvementPool[phase]
	if !ok {
		pool = improvementPool[""]
	}
	out := make([]ideas.Suggestion, 0, 3)
	if f.length < shortDescription {
		out = append(out, expandDescription)
	}
	for _, s := range pool {
		if len(out) == 3 {
			break
		}
		out = append(out, s)
	}
	return out
}

func recommendations(in ideas.Input, res ideas.AnalysisResult) []string {
	focus, ok := phaseFocus[in.Phase]
	if !ok {
		focus = genericFocus
	}
	out := []string{
		fmt.Sprintf(`Validate the core assumption behind "%s" with at least five potential users before investing further.`, in.Title),
		fmt.Sprintf(`While "%s" is in the %s phase, focus on %s.`, in.Title, in.Phase.Label(), focus),
	}
	if res.ViabilityScore < 60 {
		out = append(out, fmt.Sprintf(`Strengthen the business case for "%s": clarify who pays and why.`, in.Title))
	} else {
		out = append(out, fmt.Sprintf(`Viability looks solid; document success metrics for "%s" before scaling.`, in.Title))
	}
	if res.TechnicalFeasibility < 55 {
		out = append(out, fmt.Sprintf(`Break "%s" into a smaller first release to reduce technical risk.`, in.Title))
	}
	return out
}

// normalizedText lowercases s and collapses every run of non-alphanumerics to
// one space, padded so phrases can be matched with surrounding spaces.
func normalizedText(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return " " + strings.Join(words, " ") + " "
}

// countHits counts distinct keywords present in normalized text
func countHits(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, " "+k+" ") {
			n++
		}
	}
	return n
}

func countSentences(s string) int {
	n := 0
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}

// normalizeInput trims fields, canonicalises the phase and drops empty or duplicate tags.
func normalizeInput(in ideas.Input) ideas.Input {
	out := ideas.Input{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Phase:       ideas.ParsePhase(string(in.Phase)),
	}
	seen := make(map[string]bool, len(in.Tags))
	out.Tags = make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out.Tags = append(out.Tags, t)
	}
	return out
}
