// Package drafter composes the final memo or brief from the accumulated
// session context.
package drafter

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/SakshamA8/caseclosed/pkg/agent"
	"github.com/SakshamA8/caseclosed/pkg/research"
	"github.com/SakshamA8/caseclosed/pkg/utils"
)

type Drafter struct {
	gateway *agent.Gateway
	logger  *log.Logger
}

func NewDrafter(gateway *agent.Gateway, logger *log.Logger) *Drafter {
	return &Drafter{
		gateway: gateway,
		logger:  logger,
	}
}

// Draft produces the document text in a single completion. Caching lives
// with the caller; Draft itself always calls the gateway. The result may
// be a tagged error string when the completion backend is down -- the
// caller surfaces it as-is rather than crashing.
func (d *Drafter) Draft(ctx context.Context, sc *research.SessionContext, docType research.DocType) string {
	prompt := d.buildPrompt(sc, docType)
	d.logger.Printf("[DRAFTER] Drafting %s from %d cases", docType, len(sc.Cases))
	return d.gateway.Complete(ctx, prompt)
}

func (d *Drafter) buildPrompt(sc *research.SessionContext, docType research.DocType) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	switch docType {
	case research.DocTypeBrief:
		prompt.WriteString("You are a litigation attorney. Draft a persuasive legal brief for the matter below, with numbered sections, argument headings, and citations to the supporting cases provided.\n")
	default:
		prompt.WriteString("You are an associate attorney. Draft an objective internal legal memorandum for the matter below: question presented, brief answer, facts, discussion, conclusion. Cite the supporting cases provided.\n")
	}
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<matter>\n")
	if sc.Summary != "" {
		fmt.Fprintf(&prompt, "Summary: %s\n", utils.Truncate(sc.Summary, research.CaseTextPromptLimit))
	}
	a := sc.Analysis
	if len(a.Facts) > 0 {
		fmt.Fprintf(&prompt, "Facts: %s\n", strings.Join(a.Facts, "; "))
	}
	if len(a.Parties) > 0 {
		prompt.WriteString("Parties:\n")
		for _, p := range a.Parties {
			fmt.Fprintf(&prompt, "- %s (%s) %s\n", p.Name, p.Role, p.Details)
		}
	}
	if len(a.Jurisdictions) > 0 {
		fmt.Fprintf(&prompt, "Jurisdictions: %s\n", strings.Join(a.Jurisdictions, ", "))
	}
	if len(a.LegalIssues) > 0 {
		fmt.Fprintf(&prompt, "Legal issues: %s\n", strings.Join(a.LegalIssues, "; "))
	}
	if len(a.CausesOfAction) > 0 {
		fmt.Fprintf(&prompt, "Causes of action: %s\n", strings.Join(a.CausesOfAction, "; "))
	}
	for _, pc := range a.PenalCodes {
		fmt.Fprintf(&prompt, "Statute: %s — %s (%s)\n", pc.Code, pc.Description, pc.Relevance)
	}
	prompt.WriteString("</matter>\n\n")

	if len(sc.Cases) > 0 {
		prompt.WriteString("<supporting_cases>\n")
		for i, c := range sc.Cases {
			fmt.Fprintf(&prompt, "Case %d: %s, %s (decided %s) — relevance %d/100: %s\n",
				i+1, c.Title, c.Citation, c.DecisionDate, c.RelevanceScore, c.RelevanceReason)
			if c.Insight != nil && !c.Insight.IsEmpty() {
				ins := c.Insight
				if len(ins.LegalPrinciples) > 0 {
					fmt.Fprintf(&prompt, "  Principles: %s\n", strings.Join(ins.LegalPrinciples, "; "))
				}
				if len(ins.Holdings) > 0 {
					fmt.Fprintf(&prompt, "  Holdings: %s\n", strings.Join(ins.Holdings, "; "))
				}
				if ins.Reasoning != "" {
					fmt.Fprintf(&prompt, "  Reasoning: %s\n", utils.Truncate(ins.Reasoning, research.CaseTextPromptLimit))
				}
				if len(ins.RelevantStatutes) > 0 {
					fmt.Fprintf(&prompt, "  Statutes: %s\n", strings.Join(ins.RelevantStatutes, "; "))
				}
				if ins.Similarities != "" {
					fmt.Fprintf(&prompt, "  Similarities: %s\n", ins.Similarities)
				}
			} else if c.Snippet != "" {
				// no deep insight computed for this case, fall back to the raw excerpt
				fmt.Fprintf(&prompt, "  Excerpt: %s\n", utils.Truncate(c.Snippet, research.CaseTextPromptLimit))
			}
		}
		prompt.WriteString("</supporting_cases>\n\n")
	}

	prompt.WriteString("Write the complete document now. Plain text, no markdown fences.")

	return prompt.String()
}
