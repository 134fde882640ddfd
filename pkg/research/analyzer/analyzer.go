// Package analyzer turns the free-text narrative into the structured
// AnalysisBundle, optionally primed with case insights already retrieved.
package analyzer

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

type Analyzer struct {
	gateway *agent.Gateway
	logger  *log.Logger
}

func New(gateway *agent.Gateway, logger *log.Logger) *Analyzer {
	return &Analyzer{
		gateway: gateway,
		logger:  logger,
	}
}

// Result carries the extracted bundle plus the one-paragraph factual
// summary computed in the same pass.
type Result struct {
	Bundle  research.AnalysisBundle
	Summary string
}

// wire schema for the model response
type extractionPayload struct {
	Summary        string               `json:"summary"`
	Facts          []string             `json:"facts"`
	Jurisdictions  []string             `json:"jurisdictions"`
	Parties        []research.Party     `json:"parties"`
	LegalIssues    []string             `json:"legal_issues"`
	CausesOfAction []string             `json:"causes_of_action"`
	PenalCodes     []research.PenalCode `json:"penal_codes"`
}

// Extract runs one structured-extraction pass over the narrative. It never
// returns an error: a failed completion or unparsable output degrades to an
// empty bundle with every collection initialized.
func (a *Analyzer) Extract(ctx context.Context, narrative string, insights []research.CaseInsight) Result {
	prompt := a.buildPrompt(narrative, insights)

	completion := a.gateway.Complete(ctx, prompt)
	if agent.Failed(completion) {
		a.logger.Printf("[ANALYZER] Completion failed, returning empty bundle: %s", utils.Truncate(completion, 200))
		return Result{Bundle: research.NewAnalysisBundle()}
	}

	var payload extractionPayload
	if err := jsonx.DecodeObject(completion, &payload); err != nil {
		a.logger.Printf("[ANALYZER] Unparsable extraction output: %v", err)
		return Result{Bundle: research.NewAnalysisBundle()}
	}

	bundle := research.AnalysisBundle{
		Facts:          payload.Facts,
		Jurisdictions:  payload.Jurisdictions,
		Parties:        payload.Parties,
		LegalIssues:    payload.LegalIssues,
		CausesOfAction: payload.CausesOfAction,
		PenalCodes:     payload.PenalCodes,
	}
	bundle.Normalize()

	a.logger.Printf("[ANALYZER] Extracted %d facts, %d jurisdictions, %d issues, %d causes",
		len(bundle.Facts), len(bundle.Jurisdictions), len(bundle.LegalIssues), len(bundle.CausesOfAction))

	return Result{
		Bundle:  bundle,
		Summary: strings.TrimSpace(payload.Summary),
	}
}

func (a *Analyzer) buildPrompt(narrative string, insights []research.CaseInsight) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a legal analyst. Read the client narrative and extract a structured analysis.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<narrative>\n")
	prompt.WriteString(utils.Truncate(narrative, research.NarrativePromptLimit))
	prompt.WriteString("\n</narrative>\n\n")

	if len(insights) > 0 {
		capped := insights
		if len(capped) > research.MaxInsightCases {
			capped = capped[:research.MaxInsightCases]
		}
		prompt.WriteString("<case_law_insights>\n")
		prompt.WriteString("Case law already found for this matter. Let it sharpen your issue and cause-of-action identification:\n")
		for i, ins := range capped {
			fmt.Fprintf(&prompt, "Insight %d:\n", i+1)
			if len(ins.LegalPrinciples) > 0 {
				fmt.Fprintf(&prompt, "- Principles: %s\n", strings.Join(ins.LegalPrinciples, "; "))
			}
			if len(ins.Holdings) > 0 {
				fmt.Fprintf(&prompt, "- Holdings: %s\n", strings.Join(ins.Holdings, "; "))
			}
			if len(ins.RelevantStatutes) > 0 {
				fmt.Fprintf(&prompt, "- Statutes: %s\n", strings.Join(ins.RelevantStatutes, "; "))
			}
			if ins.Similarities != "" {
				fmt.Fprintf(&prompt, "- Similarities: %s\n", ins.Similarities)
			}
		}
		prompt.WriteString("</case_law_insights>\n\n")
	}

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY a JSON object in exactly this shape. Use empty arrays for anything the narrative does not support. No other text.\n")
	prompt.WriteString(`{
  "summary": "one-paragraph factual summary of the situation",
  "facts": ["..."],
  "jurisdictions": ["..."],
  "parties": [{"name": "...", "role": "...", "details": "..."}],
  "legal_issues": ["..."],
  "causes_of_action": ["..."],
  "penal_codes": [{"code": "...", "description": "...", "relevance": "..."}]
}`)
	prompt.WriteString("\n</output_format>")

	return prompt.String()
}
