// Package query produces short, lexically diverse search queries from the
// session analysis.
package query

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/SakshamA8/caseclosed/pkg/agent"
	"github.com/SakshamA8/caseclosed/pkg/research"
	"github.com/SakshamA8/caseclosed/pkg/utils"
)

type Diversifier struct {
	gateway *agent.Gateway
	logger  *log.Logger
}

func NewDiversifier(gateway *agent.Gateway, logger *log.Logger) *Diversifier {
	return &Diversifier{
		gateway: gateway,
		logger:  logger,
	}
}

// Diversify requests up to k keyword queries, one completion per query.
// A single multi-item response tends toward near-duplicate phrasing, so
// each call sees the queries already collected and is told to diverge.
// Exact duplicates (lowercased, trimmed) are dropped; diversity beats
// count, so the result may hold fewer than k entries.
func (d *Diversifier) Diversify(ctx context.Context, summary string, bundle research.AnalysisBundle, k int) []string {
	queries := make([]string, 0, k)
	seen := make(map[string]bool)

	for i := 0; i < k; i++ {
		completion := d.gateway.Complete(ctx, d.buildPrompt(summary, bundle, queries))
		if agent.Failed(completion) {
			d.logger.Printf("[QUERY] Completion %d failed, skipping: %s", i+1, utils.Truncate(completion, 200))
			continue
		}

		q := cleanQuery(completion)
		if q == "" {
			continue
		}

		norm := strings.ToLower(q)
		if seen[norm] {
			d.logger.Printf("[QUERY] Dropping duplicate query: %s", q)
			continue
		}
		seen[norm] = true
		queries = append(queries, q)
	}

	d.logger.Printf("[QUERY] Diversified %d/%d queries", len(queries), k)
	return queries
}

// cleanQuery reduces a completion to one plain keyword line.
func cleanQuery(completion string) string {
	line := strings.TrimSpace(completion)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.Trim(line, "\"'` ")
	line = strings.TrimPrefix(line, "Query:")
	return strings.TrimSpace(line)
}

func (d *Diversifier) buildPrompt(summary string, bundle research.AnalysisBundle, collected []string) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("Produce ONE short case-law search query of about 5 keywords for the legal situation below. Keywords only, no boolean operators, no punctuation.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<situation>\n")
	prompt.WriteString(utils.Truncate(summary, research.CaseTextPromptLimit))
	if len(bundle.LegalIssues) > 0 {
		fmt.Fprintf(&prompt, "\nLegal issues: %s", strings.Join(bundle.LegalIssues, "; "))
	}
	if len(bundle.CausesOfAction) > 0 {
		fmt.Fprintf(&prompt, "\nCauses of action: %s", strings.Join(bundle.CausesOfAction, "; "))
	}
	if len(bundle.Jurisdictions) > 0 {
		fmt.Fprintf(&prompt, "\nJurisdictions: %s", strings.Join(bundle.Jurisdictions, ", "))
	}
	prompt.WriteString("\n</situation>\n\n")

	if len(collected) > 0 {
		prompt.WriteString("<already_used>\n")
		prompt.WriteString("Queries already issued. Yours must target a DIFFERENT angle of the situation:\n")
		for _, q := range collected {
			fmt.Fprintf(&prompt, "- %s\n", q)
		}
		prompt.WriteString("</already_used>\n\n")
	}

	prompt.WriteString("Respond with only the query text on a single line.")

	return prompt.String()
}
