package flight

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiConfig configures the Gemini extractor.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiExtractor asks Gemini for a JSON response.
type GeminiExtractor struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

// NewGeminiExtractor creates an extractor for the Gemini API. Close
// releases its connection.
func NewGeminiExtractor(ctx context.Context, cfg GeminiConfig) (*GeminiExtractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt +
		" matching this JSON schema:\n" + string(Schema())))

	return &GeminiExtractor{client: client, model: model, name: cfg.Model}, nil
}

// Provider implements Extractor.
func (e *GeminiExtractor) Provider() string { return "gemini" }

// Model implements Extractor.
func (e *GeminiExtractor) Model() string { return e.name }

// Extract implements Extractor.
func (e *GeminiExtractor) Extract(ctx context.Context, email string) (string, error) {
	resp, err := e.model.GenerateContent(ctx, genai.Text(email))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	return responseText(resp), nil
}

// Close releases the client.
func (e *GeminiExtractor) Close() error {
	return e.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
