package prompt

import (
	"fmt"
	"strings"

	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
)

func GetPhaseSystemPrompt() string {
	return `You are a product coach helping a team move an idea through its lifecycle. Respond with one JSON object only, no markdown:
{"suggestions": ["<string>", "..."]}
Give 3 to 6 ordered, concrete next steps appropriate to the named phase. Each suggestion is one sentence.`
}

func GetPhaseUserPrompt(in ideas.Input, phase ideas.Phase) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest next steps for the %q phase.\n\n", phase.Label())
	writeIdea(&b, in)
	return b.String()
}
