// Package grader scores retrieved cases against the session analysis and
// ranks them.
package grader

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/SakshamA8/caseclosed/pkg/agent"
	"github.com/SakshamA8/caseclosed/pkg/research"
	"github.com/SakshamA8/caseclosed/pkg/research/jsonx"
	"github.com/SakshamA8/caseclosed/pkg/utils"
)

// Calibrated score band. The bottom of the band is reserved for true
// non-matches, the top for strong alignment on facts, issues, and
// jurisdiction. Unparsable grader output lands on the midpoint.
const (
	ScoreMin     = 20
	ScoreMax     = 100
	ScoreDefault = (ScoreMin + ScoreMax) / 2
)

type Grader struct {
	gateway *agent.Gateway
	logger  *log.Logger
}

func NewGrader(gateway *agent.Gateway, logger *log.Logger) *Grader {
	return &Grader{
		gateway: gateway,
		logger:  logger,
	}
}

type gradePayload struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Grade scores one case. One completion per case; failure degrades to the
// band midpoint with a diagnostic reason rather than losing the case.
func (g *Grader) Grade(ctx context.Context, summary string, bundle research.AnalysisBundle, c research.Case) (int, string) {
	completion := g.gateway.Complete(ctx, g.buildPrompt(summary, bundle, c))
	if agent.Failed(completion) {
		g.logger.Printf("[GRADER] Completion failed for %q: %s", c.Title, utils.Truncate(completion, 200))
		return ScoreDefault, "relevance could not be graded (completion failed)"
	}

	var payload gradePayload
	if err := jsonx.DecodeObject(completion, &payload); err != nil {
		g.logger.Printf("[GRADER] Unparsable grade for %q: %v", c.Title, err)
		return ScoreDefault, "relevance could not be graded (unparsable output)"
	}

	score := Clamp(int(payload.Score))
	reason := strings.TrimSpace(payload.Reason)
	if reason == "" {
		reason = "no grading rationale provided"
	}
	return score, reason
}

// GradeAll grades every case and returns them sorted descending by score.
// The sort is stable: exact ties keep their first-seen retrieval order.
func (g *Grader) GradeAll(ctx context.Context, summary string, bundle research.AnalysisBundle, cases []research.Case) []research.Case {
	graded := make([]research.Case, len(cases))
	for i, c := range cases {
		score, reason := g.Grade(ctx, summary, bundle, c)
		c.RelevanceScore = score
		c.RelevanceReason = reason
		graded[i] = c
	}

	sort.SliceStable(graded, func(i, j int) bool {
		return graded[i].RelevanceScore > graded[j].RelevanceScore
	})
	return graded
}

// Clamp forces a raw score into the declared band.
func Clamp(score int) int {
	if score < ScoreMin {
		return ScoreMin
	}
	if score > ScoreMax {
		return ScoreMax
	}
	return score
}

func (g *Grader) buildPrompt(summary string, bundle research.AnalysisBundle, c research.Case) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	fmt.Fprintf(&prompt, "Grade how relevant the case below is to the client situation on a %d-%d scale.\n", ScoreMin, ScoreMax)
	prompt.WriteString("Grade with moderate leniency: any thematic or factual overlap deserves partial credit.\n")
	fmt.Fprintf(&prompt, "Reserve scores near %d for cases with no meaningful connection, and scores near %d for strong alignment on facts, legal issues, AND jurisdiction.\n", ScoreMin, ScoreMax)
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<client_situation>\n")
	prompt.WriteString(utils.Truncate(summary, research.CaseTextPromptLimit))
	if len(bundle.LegalIssues) > 0 {
		fmt.Fprintf(&prompt, "\nLegal issues: %s", strings.Join(bundle.LegalIssues, "; "))
	}
	if len(bundle.Jurisdictions) > 0 {
		fmt.Fprintf(&prompt, "\nJurisdictions: %s", strings.Join(bundle.Jurisdictions, ", "))
	}
	prompt.WriteString("\n</client_situation>\n\n")

	prompt.WriteString("<case>\n")
	fmt.Fprintf(&prompt, "Title: %s\nCitation: %s\nDecided: %s\nExcerpt: %s\n",
		c.Title, c.Citation, c.DecisionDate, utils.Truncate(c.Snippet, research.CaseTextPromptLimit))
	prompt.WriteString("</case>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY this JSON, the reason being a single sentence. No other text.\n")
	prompt.WriteString(`{"score": 60, "reason": "..."}`)
	prompt.WriteString("\n</output_format>")

	return prompt.String()
}
