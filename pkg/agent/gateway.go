package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/SakshamA8/caseclosed/pkg/llm"
)

// ErrorPrefix tags completions that failed in transit. Downstream
// consumers check the tag instead of handling transport errors themselves.
const ErrorPrefix = "[error:"

// Gateway is the single entry point every agent uses to reach the
// completion backend. It never returns an error: a failed call yields a
// tagged error string so one degraded step cannot abort a whole turn.
// No retry is attempted here.
type Gateway struct {
	provider llm.LLMProvider
}

func NewGateway(provider llm.LLMProvider) *Gateway {
	return &Gateway{provider: provider}
}

// Complete sends a single prompt and returns the model text, or a tagged
// error string on failure.
func (g *Gateway) Complete(ctx context.Context, prompt string, opts ...llm.Option) string {
	out, err := g.provider.Generate(ctx, prompt, opts...)
	if err != nil {
		return fmt.Sprintf("%s %v]", ErrorPrefix, err)
	}
	return out
}

// Failed reports whether a completion carries the error tag.
func Failed(completion string) bool {
	return strings.HasPrefix(strings.TrimSpace(completion), ErrorPrefix)
}
