package factory

import (
	"testing"

	"github.com/SakshamA8/caseclosed/pkg/llm/huggingface"
	"github.com/SakshamA8/caseclosed/pkg/llm/ollama"
	"github.com/SakshamA8/caseclosed/pkg/llm/openai"
)

func TestNewLLMProvider(t *testing.T) {
	tests := []struct {
		name         string
		providerType string
		apiKey       string
		wantErr      bool
	}{
		{"openai with key", "openai", "sk-test", false},
		{"openai without key", "openai", "", true},
		{"huggingface with key", "huggingface", "hf-test", false},
		{"huggingface without key", "huggingface", "", true},
		{"ollama", "ollama", "", false},
		{"unknown", "palm", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewLLMProvider(tt.providerType, "model", tt.apiKey, "")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLLMProvider: %v", err)
			}

			switch tt.providerType {
			case "openai":
				if _, ok := p.(*openai.OpenAIProvider); !ok {
					t.Errorf("got %T", p)
				}
			case "huggingface":
				if _, ok := p.(*huggingface.HuggingFaceProvider); !ok {
					t.Errorf("got %T", p)
				}
			case "ollama":
				if _, ok := p.(*ollama.OllamaProvider); !ok {
					t.Errorf("got %T", p)
				}
			}
		})
	}
}
