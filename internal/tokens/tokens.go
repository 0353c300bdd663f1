// Package tokens counts prompt tokens so oversized prompts can be caught
// before they are sent.
package tokens

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts the tokens text costs for one model.
type Counter interface {
	Count(text string) int
}

// Tiktoken counts tokens with the model's BPE encoding.
type Tiktoken struct {
	model string
	enc   *tiktoken.Tiktoken
}

// NewTiktoken returns a Counter for an OpenAI model. Loading an encoding
// the first time downloads its ranks into the tiktoken cache directory.
func NewTiktoken(model string) (*Tiktoken, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("no tiktoken encoding for model %s: %w", model, err)
	}
	return &Tiktoken{model: model, enc: enc}, nil
}

// Count returns the number of tokens in text. Special tokens are counted
// as ordinary text.
func (t *Tiktoken) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// Model returns the model the encoding belongs to.
func (t *Tiktoken) Model() string {
	return t.model
}

// charsPerToken is the usual ratio for English text on BPE tokenizers.
const charsPerToken = 4

// Estimate approximates a token count from the number of characters.
func Estimate(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + charsPerToken - 1) / charsPerToken
}

// Estimator is a Counter backed by Estimate.
type Estimator struct{}

// Count implements Counter.
func (Estimator) Count(text string) int {
	return Estimate(text)
}

// ForModel returns an exact counter for model when one can be loaded and
// an Estimator otherwise.
func ForModel(model string, logger *slog.Logger) Counter {
	counter, err := NewTiktoken(model)
	if err != nil {
		if logger != nil {
			logger.Debug("falling back to estimated token counts", "model", model, "error", err)
		}
		return Estimator{}
	}
	return counter
}
