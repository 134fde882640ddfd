package drafter

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/SakshamA8/caseclosed/pkg/agent"
	"github.com/SakshamA8/caseclosed/pkg/llm"
	"github.com/SakshamA8/caseclosed/pkg/research"
)

type stubProvider struct {
	response   string
	lastPrompt string
}

func (s *stubProvider) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	s.lastPrompt = prompt
	return s.response, nil
}

func (s *stubProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	s.lastPrompt = history[len(history)-1].Content
	return s.response, nil
}

func sampleContext() *research.SessionContext {
	sc := research.NewSessionContext("ctx")
	sc.Summary = "tenant deposit dispute"
	sc.Analysis.Facts = []string{"deposit withheld"}
	sc.Analysis.Jurisdictions = []string{"California"}
	sc.Analysis.Parties = []research.Party{{Name: "tenant", Role: "plaintiff"}}
	sc.Cases = []research.Case{
		{
			Title: "Granberry v. Islay Investments", Citation: "9 Cal.4th 738",
			RelevanceScore: 88, RelevanceReason: "same statute",
			Insight: &research.CaseInsight{
				Holdings:     []string{"landlord bears the burden"},
				Similarities: "same withholding pattern",
			},
		},
		{
			Title: "Doe v. Roe", Citation: "1 U.S. 1",
			RelevanceScore: 40, RelevanceReason: "thin overlap",
			Snippet: "raw excerpt fallback text",
		},
	}
	return sc
}

func TestDraftEmbedsCasesAndInsight(t *testing.T) {
	stub := &stubProvider{response: "MEMORANDUM"}
	d := NewDrafter(agent.NewGateway(stub), log.New(io.Discard, "", 0))

	got := d.Draft(context.Background(), sampleContext(), research.DocTypeMemo)
	if got != "MEMORANDUM" {
		t.Errorf("draft = %q", got)
	}

	prompt := stub.lastPrompt
	for _, want := range []string{
		"Granberry v. Islay Investments",
		"landlord bears the burden",
		"same withholding pattern",
		"raw excerpt fallback text", // snippet fallback for the case without insight
		"legal memorandum",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestDraftBriefUsesBriefInstructions(t *testing.T) {
	stub := &stubProvider{response: "BRIEF"}
	d := NewDrafter(agent.NewGateway(stub), log.New(io.Discard, "", 0))

	d.Draft(context.Background(), sampleContext(), research.DocTypeBrief)

	if !strings.Contains(stub.lastPrompt, "persuasive legal brief") {
		t.Error("brief prompt missing brief instructions")
	}
}
