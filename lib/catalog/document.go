package catalog

import (
	"fmt"
	"time"
)

// SourceInfo identifies where a batch came from. It passes through to
// the output document untouched.
type SourceInfo struct {
	Platform    string            `json:"platform"`
	Category    string            `json:"category,omitempty"`
	Name        string            `json:"category_name,omitempty"`
	Description string            `json:"description,omitempty"`
	Params      map[string]string `json:"source_params,omitempty"`
}

// Document is the final denormalized output for one batch: source
// metadata, the aggregate report and the full normalized record
// sequence. Everything in it is JSON-representable.
type Document struct {
	Source      SourceInfo `json:"source"`
	ExtractedAt string     `json:"extracted_at"`
	TotalEvents int        `json:"total_events"`
	Stats       Stats      `json:"summary_statistics"`
	Events      []Record   `json:"events"`
}

// Assemble wraps an aggregated batch into its output document. It
// performs no further computation.
func Assemble(source SourceInfo, events []Record, stats Stats) Document {
	if events == nil {
		events = []Record{}
	}
	return Document{
		Source:      source,
		ExtractedAt: time.Now().UTC().Format(time.RFC3339),
		TotalEvents: len(events),
		Stats:       stats,
		Events:      events,
	}
}

// EventsFromPayload pulls the raw record list out of a fetched platform
// payload. A payload that is not an object or lacks the list key is the
// one condition the pipeline reports as an error; there is nothing to
// aggregate. Entries of the list that are not objects become marker
// records instead of failing the batch.
func EventsFromPayload(payload any, listKey string) ([]Record, error) {
	doc, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("payload is %T, expected a JSON object", payload)
	}
	raw, ok := doc[listKey]
	if !ok {
		return nil, fmt.Errorf("payload has no %q key", listKey)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("payload field %q is %T, expected a list", listKey, raw)
	}

	records := make([]Record, 0, len(list))
	for _, item := range list {
		if item == nil {
			continue
		}
		rec, ok := item.(map[string]any)
		if !ok {
			records = append(records, MarkerRecord(
				fmt.Sprintf("record is %T, expected a JSON object", item), item,
			))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
