package catalog

// Pipeline bundles the per-platform configuration for going from a
// fetched payload to an output document: the top-level list key, the
// embedded field rules and the stats field names.
type Pipeline struct {
	ListKey string
	Rules   []FieldRule
	Stats   StatsConfig
}

// MelonPipeline handles ticket.melon.com prodList payloads.
func MelonPipeline() Pipeline {
	return Pipeline{
		ListKey: "data",
		Rules:   MelonFieldRules(),
		Stats:   MelonStatsConfig(),
	}
}

// MelonGlobalPipeline handles tkglobal.melon.com endProdList payloads.
// The global API returns already-structured records, so there are no
// embedded fields to decode.
func MelonGlobalPipeline() Pipeline {
	return Pipeline{
		ListKey: "endProdList",
		Stats:   MelonGlobalStatsConfig(),
	}
}

// Process runs the full pipeline for one payload: extract the record
// list, normalize each record, aggregate, assemble. The only error it
// can return is a structurally invalid payload.
func (p Pipeline) Process(source SourceInfo, payload any) (Document, error) {
	records, err := EventsFromPayload(payload, p.ListKey)
	if err != nil {
		return Document{}, err
	}
	events := NewNormalizer(p.Rules).NormalizeAll(records)
	stats := Aggregate(p.Stats, events)
	return Assemble(source, events, stats), nil
}
