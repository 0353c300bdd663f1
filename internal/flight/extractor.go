package flight

import "context"

// Extractor asks one LLM provider for the flight details in an email.
type Extractor interface {
	// Extract returns the raw itinerary JSON, or "" when the provider
	// gave no answer.
	Extract(ctx context.Context, email string) (string, error)

	// Provider names the provider, such as "openai".
	Provider() string

	// Model names the model requests are sent to.
	Model() string
}

// systemPrompt is the instruction for providers that take one.
const systemPrompt = "Extract flight details from email and return in JSON format"
