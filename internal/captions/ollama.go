package captions

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/photolog/internal/models"
)

// Ollama describes photos with a local vision model
type Ollama struct {
	URL         string
	Model       string
	Temperature float64
	Client      *http.Client
}

func NewOllama(url, model string) *Ollama {
	return &Ollama{
		URL:         strings.TrimRight(url, "/"),
		Model:       model,
		Temperature: 0.2,
		Client:      &http.Client{Timeout: 5 * time.Minute},
	}
}

// Describe posts the image to /api/generate
func (o *Ollama) Describe(ctx context.Context, img *models.ImageData, prompt string) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", ErrNoImage
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model":  o.Model,
		"prompt": promptOrDefault(prompt),
		"images": []string{base64.StdEncoding.EncodeToString(img.Data)},
		"stream": false,
		"options": map[string]interface{}{
			"temperature": o.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.URL+"/api/generate", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	return strings.TrimSpace(response.Response), nil
}
