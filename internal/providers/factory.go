package providers

import (
	"fmt"
	"os"

	"github.com/admitdesk/admitdesk/internal/engine"
)

// NewClassifierFromEnv creates an engine.IntentClassifier based on
// environment variables. LLM_PROVIDER selects the backend; each backend reads
// its own key/model/base-URL variables. Defaults to groq, the fastest option
// for a latency-sensitive voice pipeline.
func NewClassifierFromEnv() (engine.IntentClassifier, string, error) {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = "groq"
	}

	switch provider {
	case "groq":
		apiKey := os.Getenv("GROQ_API_KEY")
		if apiKey == "" {
			return nil, "", fmt.Errorf("GROQ_API_KEY not set")
		}

		model := os.Getenv("GROQ_MODEL")
		if model == "" {
			model = "llama-3.1-70b-versatile"
		}

		baseURL := os.Getenv("GROQ_BASE_URL")
		if baseURL == "" {
			baseURL = "https://api.groq.com/openai/v1"
		}

		return NewOpenAIClassifier(apiKey, model, baseURL), model, nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, "", fmt.Errorf("OPENAI_API_KEY not set")
		}

		model := os.Getenv("OPENAI_MODEL")
		if model == "" {
			model = "gpt-4o-mini"
		}

		baseURL := os.Getenv("OPENAI_BASE_URL") // for OpenAI-compatible APIs

		return NewOpenAIClassifier(apiKey, model, baseURL), model, nil

	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, "", fmt.Errorf("ANTHROPIC_API_KEY not set")
		}

		model := os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-3-5-haiku-20241022"
		}

		return NewAnthropicClassifier(apiKey, model), model, nil

	case "ollama":
		baseURL := os.Getenv("OLLAMA_BASE_URL")
		if baseURL == "" {
			baseURL = "http://localhost:11434/v1"
		}

		model := os.Getenv("OLLAMA_MODEL")
		if model == "" {
			model = "llama3.1"
		}

		// API key can be anything for local models.
		apiKey := os.Getenv("OLLAMA_API_KEY")
		if apiKey == "" {
			apiKey = "ollama"
		}

		return NewOpenAIClassifier(apiKey, model, baseURL), model, nil

	default:
		return nil, "", fmt.Errorf("unknown LLM_PROVIDER: %s (supported: groq, openai, anthropic, ollama)", provider)
	}
}
