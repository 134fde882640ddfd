// Package clarify decides whether a turn proceeds to retrieval or pauses
// to ask the user follow-up questions.
package clarify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/SakshamA8/caseclosed/pkg/agent"
	"github.com/SakshamA8/caseclosed/pkg/research"
	"github.com/SakshamA8/caseclosed/pkg/research/jsonx"
	"github.com/SakshamA8/caseclosed/pkg/utils"
)

// State is the clarification phase of a turn.
type State string

const (
	StateInit        State = "INIT"
	StateAwaitAnswer State = "AWAIT_ANSWER"
	StateProceed     State = "PROCEED"
)

// Decision is the controller's verdict for one turn.
type Decision struct {
	NeedsMoreInfo bool
	Questions     []string
}

// State resolves the transition: AWAIT_ANSWER only while the attempt
// budget allows and at least one question survived filtering. Exhausting
// the budget forces PROCEED regardless of the missing-info signal.
func (d Decision) State(attempts int) State {
	if d.NeedsMoreInfo && len(d.Questions) > 0 && attempts < research.MaxClarifyAttempts {
		return StateAwaitAnswer
	}
	return StateProceed
}

type Controller struct {
	gateway *agent.Gateway
	logger  *log.Logger
}

func NewController(gateway *agent.Gateway, logger *log.Logger) *Controller {
	return &Controller{
		gateway: gateway,
		logger:  logger,
	}
}

type decisionPayload struct {
	NeedsMoreInfo bool     `json:"needs_more_info"`
	Questions     []string `json:"questions"`
}

// Evaluate asks the model whether critical information is still missing.
// Answers to prior questions arrive as part of the narrative and are
// re-evaluated here rather than trusted at face value, since users rarely
// answer every question. Degrades to PROCEED on any completion or parse
// failure.
func (c *Controller) Evaluate(ctx context.Context, message, narrative string, bundle research.AnalysisBundle, attempts int) Decision {
	if attempts >= research.MaxClarifyAttempts {
		c.logger.Printf("[CLARIFY] Attempt budget exhausted (%d), forcing proceed", attempts)
		return Decision{}
	}

	completion := c.gateway.Complete(ctx, c.buildPrompt(message, narrative, bundle))
	if agent.Failed(completion) {
		c.logger.Printf("[CLARIFY] Completion failed, proceeding without questions: %s", utils.Truncate(completion, 200))
		return Decision{}
	}

	var payload decisionPayload
	if err := jsonx.DecodeObject(completion, &payload); err != nil {
		c.logger.Printf("[CLARIFY] Unparsable decision output, proceeding: %v", err)
		return Decision{}
	}

	questions := FilterRedundant(payload.Questions, bundle)
	if len(questions) > research.MaxPendingQuestions {
		questions = questions[:research.MaxPendingQuestions]
	}

	c.logger.Printf("[CLARIFY] needs_more_info=%v, %d questions after filtering", payload.NeedsMoreInfo, len(questions))

	return Decision{
		NeedsMoreInfo: payload.NeedsMoreInfo,
		Questions:     questions,
	}
}

// FilterRedundant drops candidate questions that ask for information the
// analysis has already captured. The match is a lowercased substring check
// against the keywords of each populated field.
func FilterRedundant(questions []string, bundle research.AnalysisBundle) []string {
	var coveredKeywords []string
	if len(bundle.Jurisdictions) > 0 {
		coveredKeywords = append(coveredKeywords, "jurisdiction", "which state", "what state", "where did")
	}
	if len(bundle.Parties) > 0 {
		coveredKeywords = append(coveredKeywords, "parties", "who is involved", "who was involved")
	}
	if len(bundle.LegalIssues) > 0 {
		coveredKeywords = append(coveredKeywords, "legal issue")
	}
	if len(bundle.CausesOfAction) > 0 {
		coveredKeywords = append(coveredKeywords, "cause of action", "causes of action")
	}

	filtered := make([]string, 0, len(questions))
	for _, q := range questions {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		lower := strings.ToLower(q)
		redundant := false
		for _, kw := range coveredKeywords {
			if strings.Contains(lower, kw) {
				redundant = true
				break
			}
		}
		if !redundant {
			filtered = append(filtered, q)
		}
	}
	return filtered
}

func (c *Controller) buildPrompt(message, narrative string, bundle research.AnalysisBundle) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a legal intake assistant. Decide whether the narrative below contains enough information to research relevant case law: concrete facts, jurisdiction, parties, legal issues, causes of action.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<narrative>\n")
	prompt.WriteString(utils.Truncate(narrative, research.NarrativePromptLimit))
	prompt.WriteString("\n</narrative>\n\n")

	prompt.WriteString("<latest_message>\n")
	prompt.WriteString(utils.Truncate(message, research.CaseTextPromptLimit))
	prompt.WriteString("\n</latest_message>\n\n")

	if !bundle.IsEmpty() {
		prompt.WriteString("<known_analysis>\n")
		prompt.WriteString("Already established, do not ask about these again:\n")
		if len(bundle.Jurisdictions) > 0 {
			fmt.Fprintf(&prompt, "- Jurisdictions: %s\n", strings.Join(bundle.Jurisdictions, ", "))
		}
		if len(bundle.LegalIssues) > 0 {
			fmt.Fprintf(&prompt, "- Legal issues: %s\n", strings.Join(bundle.LegalIssues, "; "))
		}
		if len(bundle.CausesOfAction) > 0 {
			fmt.Fprintf(&prompt, "- Causes of action: %s\n", strings.Join(bundle.CausesOfAction, "; "))
		}
		prompt.WriteString("</known_analysis>\n\n")
	}

	prompt.WriteString("<output_format>\n")
	fmt.Fprintf(&prompt, "Respond with ONLY this JSON, asking at most %d concrete questions when information is missing. No other text.\n", research.MaxPendingQuestions)
	prompt.WriteString(`{"needs_more_info": true, "questions": ["..."]}`)
	prompt.WriteString("\n</output_format>")

	return prompt.String()
}
