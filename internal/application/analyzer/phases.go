package analyzer

import (
	"strings"

	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
)

var phaseGuidance = map[ideas.Phase][]string{
	ideas.PhaseInception: {
		"Write a one-sentence problem statement for {title}.",
		"Identify who experiences the problem most and how they solve it today.",
		"List the three riskiest assumptions behind the idea.",
		"Collect quick reactions from at least five people in the target audience.",
		"Decide what evidence would justify moving to refinement.",
	},
	ideas.PhaseRefinement: {
		"Narrow {title} to a single primary audience and use case.",
		"Sketch the core user journey end to end.",
		"Compare the idea against the closest alternatives and state its edge.",
		"Turn open questions into small experiments with clear pass criteria.",
		"Update the description and tags with what you have learned.",
	},
	ideas.PhasePlanning: {
		"Define the minimum feature set that delivers the core value of {title}.",
		"Estimate effort, cost and timeline for that first release.",
		"Assign owners for product, engineering and go-to-market tasks.",
		"Agree on success metrics and a date to review them.",
		"Identify dependencies and risks that could block delivery.",
	},
	ideas.PhaseExecutionReady: {
		"Freeze the scope of the first release of {title}.",
		"Prepare launch materials and choose the first acquisition channel.",
		"Instrument the product to measure the agreed success metrics.",
		"Schedule a retrospective two weeks after launch.",
	},
}

var genericGuidance = []string{
	"Clarify the current stage of {title} and the next milestone.",
	"Review the description for missing details about users and value.",
	"Gather feedback from people in the target audience.",
	"Decide on one concrete action to take this week.",
}

const tagGuidance = "Add tags so related ideas in the workspace can be grouped."

// GeneratePhaseSuggestions returns the table-driven guidance for phase. Unknown
// phases get the generic list; the result is never empty.
func GeneratePhaseSuggestions(in ideas.Input, phase ideas.Phase) []string {
	in = normalizeInput(in)
	templates, ok := phaseGuidance[ideas.ParsePhase(string(phase))]
	if !ok {
		templates = genericGuidance
	}

	title := in.Title
	if title == "" {
		title = "the idea"
	} else {
		title = `"` + title + `"`
	}
	r := strings.NewReplacer("{title}", title)

	out := make([]string, 0, len(templates)+1)
	for _, t := range templates {
		out = append(out, r.Replace(t))
	}
	if len(in.Tags) == 0 {
		out = append(out, tagGuidance)
	}
	return out
}
