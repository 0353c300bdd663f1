// Package flight extracts flight itineraries from confirmation emails with
// an LLM and turns each flight into a calendar event.
//
// An Extractor talks to one provider and returns the raw JSON it produced.
// OpenAI is asked to call a set_flight_data function whose parameters are
// the embedded itinerary schema, Anthropic is asked to wrap its answer in
// <json> tags, and Gemini is asked for a JSON response.
//
// Pipeline prepares the email for the provider, enforces its prompt token
// limit and decodes the answer into an Itinerary:
//
//	p := flight.NewPipeline(extractor, flight.PipelineConfig{
//		TokenLimit: 16385,
//		Counter:    tokens.ForModel("gpt-3.5-turbo-16k", logger),
//		Logger:     logger,
//	})
//	itinerary, err := p.Extract(ctx, rawEmail)
//	if errors.Is(err, flight.ErrNoFlightDetails) {
//		// nothing found
//	}
package flight
