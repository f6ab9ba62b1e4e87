package output

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sportslens/sportslens/internal/core"
	"github.com/sportslens/sportslens/internal/core/cache"
)

// TableFormatter renders results as ASCII tables.
type TableFormatter struct{}

// FormatEnvelope renders a fetch envelope summary as a table, with the
// payload appended as indented JSON on success.
func (f *TableFormatter) FormatEnvelope(envelope *core.Envelope) (string, error) {
	if envelope == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Endpoint", "Status", "Source", "Outcome"})
	t.AppendRow(table.Row{
		envelope.Endpoint,
		envelope.StatusCode,
		sourceLabel(envelope),
		outcomeLabel(envelope),
	})

	rendered := t.Render()
	if envelope.OK() && envelope.Data != nil {
		payload, err := json.MarshalIndent(envelope.Data, "", "  ")
		if err != nil {
			return "", err
		}
		rendered += "\n" + string(payload)
	}
	return rendered, nil
}

// FormatStats renders cache statistics as a table.
func (f *TableFormatter) FormatStats(stats cache.Stats) (string, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Hits", "Misses", "Hit Rate"})
	t.AppendRow(table.Row{
		stats.Hits,
		stats.Misses,
		fmt.Sprintf("%.1f%%", stats.HitRate()*100),
	})
	return t.Render(), nil
}

func sourceLabel(envelope *core.Envelope) string {
	if envelope.FromCache {
		return "cache"
	}
	return "network"
}

func outcomeLabel(envelope *core.Envelope) string {
	if envelope.OK() {
		return "ok"
	}
	return envelope.Error
}
