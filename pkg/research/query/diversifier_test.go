package query

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

type scriptedProvider struct {
	responses []string
	errs      []error
	call      int
}

func (s *scriptedProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	i := s.call
	s.call++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("script exhausted")
}

func (s *scriptedProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return s.Generate(ctx, history[len(history)-1].Content, opts...)
}

func newDiversifier(p llm.LLMProvider) *Diversifier {
	return NewDiversifier(agent.NewGateway(p), log.New(io.Discard, "", 0))
}

func TestDiversifyDropsDuplicates(t *testing.T) {
	stub := &scriptedProvider{responses: []string{
		"california deposit withholding statute",
		"  California Deposit Withholding Statute  ", // same after normalization
		"landlord bad faith retention damages",
	}}

	got := newDiversifier(stub).Diversify(context.Background(), "summary", research.NewAnalysisBundle(), 3)

	if len(got) != 2 {
		t.Fatalf("queries = %v", got)
	}
	if got[0] != "california deposit withholding statute" {
		t.Errorf("first query mangled: %q", got[0])
	}
}

func TestDiversifySkipsFailedCalls(t *testing.T) {
	stub := &scriptedProvider{
		responses: []string{"", "tenant deposit return deadline", "", "security deposit itemized deductions"},
		errs:      []error{errors.New("down"), nil, nil, nil},
	}

	got := newDiversifier(stub).Diversify(context.Background(), "summary", research.NewAnalysisBundle(), 4)

	// one transport failure, one empty completion, two usable queries
	if len(got) != 2 {
		t.Errorf("queries = %v", got)
	}
}

func TestCleanQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain keywords here", "plain keywords here"},
		{"\"quoted query\"", "quoted query"},
		{"Query: deposit statute california", "deposit statute california"},
		{"first line\nsecond line", "first line"},
		{"```\nfenced\n```", ""},
	}

	for _, tt := range tests {
		if got := cleanQuery(tt.in); got != tt.want {
			t.Errorf("cleanQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
