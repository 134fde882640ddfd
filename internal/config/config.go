package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Ai     AIConfig
	Search SearchConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	SessionStore       string // "memory" or "redis"
	RedisURL           string
}

type AIConfig struct {
	LLMProvider        string // "openai", "huggingface" or "ollama"
	LLMModel           string // e.g. "gpt-4o-mini", "llama3"
	OpenAIKey          string
	HuggingFaceKey     string
	HuggingFaceBaseURL string
	OllamaBaseURL      string
}

// ProviderCredentials selects the API key and base URL matching
// LLMProvider, so each backend is configured with its own keys.
func (a AIConfig) ProviderCredentials() (apiKey, baseURL string) {
	switch a.LLMProvider {
	case "huggingface":
		return a.HuggingFaceKey, a.HuggingFaceBaseURL
	case "ollama":
		return "", a.OllamaBaseURL
	default:
		return a.OpenAIKey, ""
	}
}

type SearchConfig struct {
	BaseURL  string
	Token    string
	PageSize int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			SessionStore:       getEnv("SESSION_STORE", "memory"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Ai: AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", "openai"),
			LLMModel:           getEnv("LLM_MODEL", "gpt-4o-mini"),
			OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
			HuggingFaceKey:     getEnv("HUGGINGFACE_API_KEY", ""),
			HuggingFaceBaseURL: getEnv("HUGGINGFACE_BASE_URL", ""), // empty uses the provider's router default
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Search: SearchConfig{
			BaseURL:  getEnv("COURTLISTENER_BASE_URL", "https://www.courtlistener.com"),
			Token:    getEnv("COURTLISTENER_TOKEN", ""),
			PageSize: getEnvAsInt("COURTLISTENER_PAGE_SIZE", 5),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
