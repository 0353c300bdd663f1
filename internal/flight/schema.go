package flight

import (
	_ "embed"
	"encoding/json"
)

// FunctionName is the function OpenAI is forced to call with the itinerary.
const FunctionName = "set_flight_data"

//go:embed flight_schema.json
var schema []byte

// Schema returns the JSON schema of an itinerary.
func Schema() json.RawMessage {
	out := make(json.RawMessage, len(schema))
	copy(out, schema)
	return out
}
