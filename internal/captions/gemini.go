package captions

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/photolog/internal/models"
	"google.golang.org/api/option"
)

// Gemini describes photos with Google Gemini
type Gemini struct {
	Model       string
	Temperature float32
}

func NewGemini(model string) *Gemini {
	return &Gemini{Model: model, Temperature: 0.2}
}

// Describe sends the image as an inline blob next to the prompt
func (g *Gemini) Describe(ctx context.Context, img *models.ImageData, prompt string) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", ErrNoImage
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.Model)
	model.SetTemperature(g.Temperature)

	resp, err := model.GenerateContent(ctx, genai.ImageData(img.Format, img.Data), genai.Text(promptOrDefault(prompt)))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}

	return strings.TrimSpace(sb.String()), nil
}
