package grader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/SakshamA8/caseclosed/pkg/agent"
	"github.com/SakshamA8/caseclosed/pkg/llm"
	"github.com/SakshamA8/caseclosed/pkg/research"
)

// perCaseProvider returns a grade keyed off the case title in the prompt.
type perCaseProvider struct {
	grades map[string]string // title -> raw completion
	err    error
}

func (p *perCaseProvider) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	for title, raw := range p.grades {
		if strings.Contains(prompt, title) {
			return raw, nil
		}
	}
	return `{"score": 50, "reason": "default"}`, nil
}

func (p *perCaseProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return p.Generate(ctx, history[len(history)-1].Content, opts...)
}

func newGrader(p llm.LLMProvider) *Grader {
	return NewGrader(agent.NewGateway(p), log.New(io.Discard, "", 0))
}

func TestGradeClampsToBand(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"in band", `{"score": 75, "reason": "solid overlap"}`, 75},
		{"above band", `{"score": 140, "reason": "over-enthusiastic"}`, ScoreMax},
		{"below band", `{"score": 3, "reason": "harsh"}`, ScoreMin},
		{"fractional", `{"score": 66.7, "reason": "fraction"}`, 66},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &perCaseProvider{grades: map[string]string{"Smith": tt.raw}}
			score, _ := newGrader(p).Grade(context.Background(), "summary", research.NewAnalysisBundle(), research.Case{Title: "Smith"})
			if score != tt.want {
				t.Errorf("score = %d, want %d", score, tt.want)
			}
		})
	}
}

func TestGradeDefaultsToMidpoint(t *testing.T) {
	tests := []struct {
		name string
		p    *perCaseProvider
	}{
		{"garbage output", &perCaseProvider{grades: map[string]string{"Smith": "definitely relevant!!"}}},
		{"transport failure", &perCaseProvider{err: errors.New("down")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reason := newGrader(tt.p).Grade(context.Background(), "summary", research.NewAnalysisBundle(), research.Case{Title: "Smith"})
			if score != ScoreDefault {
				t.Errorf("score = %d, want midpoint %d", score, ScoreDefault)
			}
			if reason == "" {
				t.Error("degraded grade needs a diagnostic reason")
			}
		})
	}
}

func TestGradeAllSortsDescending(t *testing.T) {
	p := &perCaseProvider{grades: map[string]string{
		"Low":  `{"score": 30, "reason": "weak"}`,
		"High": `{"score": 90, "reason": "strong"}`,
		"Mid":  `{"score": 60, "reason": "ok"}`,
	}}

	cases := []research.Case{{Title: "Low"}, {Title: "High"}, {Title: "Mid"}}
	got := newGrader(p).GradeAll(context.Background(), "summary", research.NewAnalysisBundle(), cases)

	for i := 0; i+1 < len(got); i++ {
		if got[i].RelevanceScore < got[i+1].RelevanceScore {
			t.Fatalf("not sorted descending: %+v", got)
		}
	}
	if got[0].Title != "High" || got[2].Title != "Low" {
		t.Errorf("order = %s, %s, %s", got[0].Title, got[1].Title, got[2].Title)
	}
}

func TestGradeAllStableOnTies(t *testing.T) {
	p := &perCaseProvider{} // every case grades 50

	cases := make([]research.Case, 5)
	for i := range cases {
		cases[i] = research.Case{Title: fmt.Sprintf("Case %d", i), Citation: fmt.Sprintf("%d U.S. 1", i)}
	}

	got := newGrader(p).GradeAll(context.Background(), "summary", research.NewAnalysisBundle(), cases)

	for i, c := range got {
		if c.Title != fmt.Sprintf("Case %d", i) {
			t.Fatalf("tie order not stable: %+v", got)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-5) != ScoreMin || Clamp(1000) != ScoreMax || Clamp(60) != 60 {
		t.Error("Clamp misbehaves at the band edges")
	}
}
