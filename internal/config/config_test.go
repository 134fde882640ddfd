package config

import "testing"

func TestProviderCredentials(t *testing.T) {
	ai := AIConfig{
		OpenAIKey:          "openai-key",
		HuggingFaceKey:     "hf-key",
		HuggingFaceBaseURL: "https://hf.example",
		OllamaBaseURL:      "http://localhost:11434",
	}

	tests := []struct {
		provider    string
		wantKey     string
		wantBaseURL string
	}{
		{"openai", "openai-key", ""},
		{"huggingface", "hf-key", "https://hf.example"},
		{"ollama", "", "http://localhost:11434"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			ai.LLMProvider = tt.provider
			key, baseURL := ai.ProviderCredentials()
			if key != tt.wantKey || baseURL != tt.wantBaseURL {
				t.Errorf("ProviderCredentials() = (%q, %q), want (%q, %q)", key, baseURL, tt.wantKey, tt.wantBaseURL)
			}
		})
	}
}

func TestGetEnvAsIntFallback(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "not a number")
	if got := getEnvAsInt("TEST_PAGE_SIZE", 5); got != 5 {
		t.Errorf("non-numeric value: got %d, want fallback 5", got)
	}

	t.Setenv("TEST_PAGE_SIZE", "12")
	if got := getEnvAsInt("TEST_PAGE_SIZE", 5); got != 12 {
		t.Errorf("numeric value: got %d, want 12", got)
	}
}
