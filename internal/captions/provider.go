package captions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/photolog/internal/models"
)

// DefaultPrompt asks for a short factual caption suitable for a report row
const DefaultPrompt = `Describe this photo for a site documentation report.
Write one or two short sentences stating what is shown and any visible defects or notable details.
Do not speculate, do not use markdown, and return only the description.`

var ErrNoImage = errors.New("no image data to describe")

// Provider drafts a description for a photo
type Provider interface {
	Describe(ctx context.Context, img *models.ImageData, prompt string) (string, error)
}

// New returns the provider named by name, falling back to CAPTION_PROVIDER
// and then ollama. The model comes from GEMINI_MODEL, OLLAMA_MODEL or OPENAI_MODEL.
func New(name string) (Provider, error) {
	if name == "" {
		name = os.Getenv("CAPTION_PROVIDER")
	}
	if name == "" {
		name = "ollama"
	}

	switch strings.ToLower(name) {
	case "gemini":
		return NewGemini(getEnv("GEMINI_MODEL", "gemini-1.5-flash")), nil
	case "ollama":
		return NewOllama(ollamaURL(), getEnv("OLLAMA_MODEL", "llava")), nil
	case "openai":
		return NewOpenAI(getEnv("OPENAI_MODEL", "gpt-4o")), nil
	default:
		return nil, fmt.Errorf("unsupported caption provider: %s (supported: gemini, ollama, openai)", name)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func ollamaURL() string {
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		return v
	}
	return getEnv("OLLAMA_HOST", "http://localhost:11434")
}

func promptOrDefault(prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return DefaultPrompt
	}
	return prompt
}
