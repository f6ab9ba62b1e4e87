package output

import (
	"encoding/json"

	"github.com/sportslens/sportslens/internal/core"
	"github.com/sportslens/sportslens/internal/core/cache"
)

// JSONFormatter renders results as indented JSON.
type JSONFormatter struct{}

// FormatEnvelope renders a fetch envelope as JSON.
func (f *JSONFormatter) FormatEnvelope(envelope *core.Envelope) (string, error) {
	if envelope == nil {
		return "", nil
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatStats renders cache statistics as JSON.
func (f *JSONFormatter) FormatStats(stats cache.Stats) (string, error) {
	payload := struct {
		cache.Stats
		HitRate float64 `json:"hit_rate"`
	}{Stats: stats, HitRate: stats.HitRate()}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
