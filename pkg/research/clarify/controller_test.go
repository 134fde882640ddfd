package clarify

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/SakshamA8/caseclosed/pkg/agent"
	"github.com/SakshamA8/caseclosed/pkg/llm"
	"github.com/SakshamA8/caseclosed/pkg/research"
)

type stubProvider struct {
	response string
	err      error
	calls    int
}

func (s *stubProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	s.calls++
	return s.response, s.err
}

func newController(p llm.LLMProvider) *Controller {
	return NewController(agent.NewGateway(p), log.New(io.Discard, "", 0))
}

func TestEvaluateAsksQuestions(t *testing.T) {
	stub := &stubProvider{response: `{"needs_more_info": true, "questions": ["When did the lease end?", "How much was the deposit?"]}`}
	c := newController(stub)

	d := c.Evaluate(context.Background(), "msg", "narrative", research.NewAnalysisBundle(), 0)

	if !d.NeedsMoreInfo || len(d.Questions) != 2 {
		t.Fatalf("decision = %+v", d)
	}
	if d.State(0) != StateAwaitAnswer {
		t.Errorf("state = %s, want AWAIT_ANSWER", d.State(0))
	}
}

func TestEvaluateCapsQuestions(t *testing.T) {
	stub := &stubProvider{response: `{"needs_more_info": true, "questions": ["q1?", "q2?", "q3?", "q4?", "q5?"]}`}
	d := newController(stub).Evaluate(context.Background(), "msg", "narrative", research.NewAnalysisBundle(), 0)

	if len(d.Questions) != research.MaxPendingQuestions {
		t.Errorf("got %d questions, want %d", len(d.Questions), research.MaxPendingQuestions)
	}
}

func TestEvaluateSkipsGatewayAtBudget(t *testing.T) {
	stub := &stubProvider{response: `{"needs_more_info": true, "questions": ["q?"]}`}
	c := newController(stub)

	d := c.Evaluate(context.Background(), "msg", "narrative", research.NewAnalysisBundle(), research.MaxClarifyAttempts)

	if stub.calls != 0 {
		t.Errorf("gateway called %d times after budget exhausted", stub.calls)
	}
	if d.State(research.MaxClarifyAttempts) != StateProceed {
		t.Error("exhausted budget must force PROCEED")
	}
}

func TestEvaluateDegradesToProceed(t *testing.T) {
	tests := []struct {
		name string
		stub *stubProvider
	}{
		{"transport failure", &stubProvider{err: errors.New("down")}},
		{"garbage output", &stubProvider{response: "not json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newController(tt.stub).Evaluate(context.Background(), "msg", "narrative", research.NewAnalysisBundle(), 0)
			if d.State(0) != StateProceed {
				t.Errorf("degraded decision should proceed, got %s", d.State(0))
			}
		})
	}
}

func TestDecisionStateBoundary(t *testing.T) {
	d := Decision{NeedsMoreInfo: true, Questions: []string{"q?"}}

	if d.State(research.MaxClarifyAttempts-1) != StateAwaitAnswer {
		t.Error("one attempt left should still await an answer")
	}
	if d.State(research.MaxClarifyAttempts) != StateProceed {
		t.Error("at the bound the pipeline must proceed")
	}

	noQuestions := Decision{NeedsMoreInfo: true}
	if noQuestions.State(0) != StateProceed {
		t.Error("needs-more-info without surviving questions must proceed")
	}
}

func TestFilterRedundant(t *testing.T) {
	bundle := research.NewAnalysisBundle()
	bundle.Jurisdictions = []string{"California"}
	bundle.CausesOfAction = []string{"breach of contract"}

	questions := []string{
		"What jurisdiction is your case in?",
		"Do you know the cause of action you want to pursue?",
		"When did the landlord last contact you?",
		"   ",
	}

	got := FilterRedundant(questions, bundle)

	if len(got) != 1 {
		t.Fatalf("filtered = %v", got)
	}
	if got[0] != "When did the landlord last contact you?" {
		t.Errorf("kept the wrong question: %q", got[0])
	}
}

func TestFilterRedundantKeepsAllWhenBundleEmpty(t *testing.T) {
	questions := []string{"What jurisdiction?", "Who are the parties?"}
	got := FilterRedundant(questions, research.NewAnalysisBundle())
	if len(got) != 2 {
		t.Errorf("empty bundle should filter nothing, got %v", got)
	}
}
