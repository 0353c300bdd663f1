package flight

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultCacheFile is where the last extracted itinerary is kept.
const DefaultCacheFile = "flight_details.json"

// Cache stores the last extracted itinerary so it can be scheduled again
// without another LLM call.
type Cache struct {
	path string
}

// NewCache returns a Cache backed by path, or DefaultCacheFile when empty.
func NewCache(path string) *Cache {
	if path == "" {
		path = DefaultCacheFile
	}
	return &Cache{path: path}
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Read loads the cached itinerary.
func (c *Cache) Read() (Itinerary, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return Itinerary{}, fmt.Errorf("failed to read flight cache: %w", err)
	}

	var it Itinerary
	if err := json.Unmarshal(data, &it); err != nil {
		return Itinerary{}, fmt.Errorf("failed to decode flight cache %s: %w", c.path, err)
	}
	return it, nil
}

// Write replaces the cached itinerary.
func (c *Cache) Write(it Itinerary) error {
	data, err := it.MarshalIndent()
	if err != nil {
		return fmt.Errorf("failed to encode flight details: %w", err)
	}
	if err := os.WriteFile(c.path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write flight cache: %w", err)
	}
	return nil
}
