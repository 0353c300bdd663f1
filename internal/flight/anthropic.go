package flight

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicConfig configures the Anthropic extractor.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	BaseURL   string
}

// AnthropicExtractor asks Claude to answer between <json></json> tags.
type AnthropicExtractor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

var jsonTagPattern = regexp.MustCompile(`(?s)<json>(.*?)</json>`)

// NewAnthropicExtractor creates an extractor for the messages API.
func NewAnthropicExtractor(cfg AnthropicConfig) (*AnthropicExtractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("anthropic model is required")
	}
	if cfg.MaxTokens <= 0 {
		return nil, fmt.Errorf("anthropic max tokens must be positive, got %d", cfg.MaxTokens)
	}

	opts := []anthropicoption.RequestOption{anthropicoption.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicExtractor{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
	}, nil
}

// Provider implements Extractor.
func (e *AnthropicExtractor) Provider() string { return "anthropic" }

// Model implements Extractor.
func (e *AnthropicExtractor) Model() string { return e.model }

// Extract implements Extractor.
func (e *AnthropicExtractor) Extract(ctx context.Context, email string) (string, error) {
	msg, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: e.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(anthropicPrompt(email))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic message failed: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return jsonBetweenTags(text.String()), nil
}

func anthropicPrompt(email string) string {
	return "Extract flight details from the following email inside <email></email> XML tags " +
		"and return it in JSON format between <json></json> XML tags.:\n\n<email>" + email + "</email>"
}

// jsonBetweenTags returns the first <json> section of an answer, or "".
func jsonBetweenTags(answer string) string {
	m := jsonTagPattern.FindStringSubmatch(answer)
	if m == nil {
		return ""
	}
	return m[1]
}
