// Package insight performs the deep per-case extraction used to refine
// the session analysis and enrich drafted documents.
package insight

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

type Extractor struct {
	gateway *agent.Gateway
	logger  *log.Logger
}

func NewExtractor(gateway *agent.Gateway, logger *log.Logger) *Extractor {
	return &Extractor{
		gateway: gateway,
		logger:  logger,
	}
}

// Inspect extracts structured insight from one case. Expensive (one
// completion per case), so the caller only invokes it on the final
// top-graded cases. Source text is truncated to a bounded prefix; deep
// extraction on unbounded text is not attempted. Degrades to an empty
// insight on failure.
func (e *Extractor) Inspect(ctx context.Context, c research.Case, bundle research.AnalysisBundle) research.CaseInsight {
	completion := e.gateway.Complete(ctx, e.buildPrompt(c, bundle))
	if agent.Failed(completion) {
		e.logger.Printf("[INSIGHT] Completion failed for %q: %s", c.Title, utils.Truncate(completion, 200))
		return research.CaseInsight{}
	}

	var ins research.CaseInsight
	if err := jsonx.DecodeObject(completion, &ins); err != nil {
		e.logger.Printf("[INSIGHT] Unparsable insight for %q: %v", c.Title, err)
		return research.CaseInsight{}
	}

	e.logger.Printf("[INSIGHT] Extracted insight for %q: %d principles, %d holdings",
		c.Title, len(ins.LegalPrinciples), len(ins.Holdings))
	return ins
}

func (e *Extractor) buildPrompt(c research.Case, bundle research.AnalysisBundle) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a legal researcher. Extract structured insight from the case below, focused on what matters for the client situation.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<case>\n")
	fmt.Fprintf(&prompt, "Title: %s\nCitation: %s\nDecided: %s\n", c.Title, c.Citation, c.DecisionDate)
	prompt.WriteString("Text:\n")
	prompt.WriteString(utils.Truncate(c.Snippet, research.CaseTextPromptLimit))
	prompt.WriteString("\n</case>\n\n")

	prompt.WriteString("<client_situation>\n")
	if len(bundle.Facts) > 0 {
		fmt.Fprintf(&prompt, "Facts: %s\n", strings.Join(bundle.Facts, "; "))
	}
	if len(bundle.LegalIssues) > 0 {
		fmt.Fprintf(&prompt, "Legal issues: %s\n", strings.Join(bundle.LegalIssues, "; "))
	}
	if len(bundle.Jurisdictions) > 0 {
		fmt.Fprintf(&prompt, "Jurisdictions: %s\n", strings.Join(bundle.Jurisdictions, ", "))
	}
	prompt.WriteString("</client_situation>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY this JSON. Use empty arrays or empty strings where the case text does not support a field. No other text.\n")
	prompt.WriteString(`{
  "key_facts": ["..."],
  "legal_principles": ["..."],
  "holdings": ["..."],
  "reasoning": "...",
  "relevant_statutes": ["..."],
  "similarities": "how this case parallels the client situation"
}`)
	prompt.WriteString("\n</output_format>")

	return prompt.String()
}
