package catalog

import (
	"slices"
	"time"
)

type CategorySummary struct {
	Name         string   `json:"name"`
	TotalEvents  int      `json:"total_events"`
	UniqueVenues int      `json:"unique_venues"`
	Regions      []string `json:"regions"`
	TopVenues    []string `json:"top_venues"`
}

type PriceRange struct {
	Lowest  float64 `json:"lowest_price"`
	Highest float64 `json:"highest_price"`
}

// Summary folds the reports of several batch documents into one
// cross-category view.
type Summary struct {
	TotalEvents  int                        `json:"total_events_across_categories"`
	UniqueVenues int                        `json:"total_unique_venues"`
	TotalRegions int                        `json:"total_regions"`
	Venues       []string                   `json:"venue_list"`
	Regions      []string                   `json:"region_list"`
	Categories   map[string]CategorySummary `json:"category_breakdown"`
	PriceRange   *PriceRange                `json:"price_range,omitempty"`
	GeneratedAt  string                     `json:"generated_at"`
}

// Summarize merges per-category documents, keyed by category, into an
// overall summary. Merging is order-independent, see Stats.Merge.
func Summarize(docs map[string]Document) Summary {
	merged := Stats{
		EventTypes: map[string]int{},
		Venues:     map[string]int{},
		Regions:    map[string]int{},
	}
	breakdown := make(map[string]CategorySummary, len(docs))

	for key, doc := range docs {
		stats := doc.Stats
		name := doc.Source.Name
		if name == "" {
			name = key
		}
		breakdown[key] = CategorySummary{
			Name:         name,
			TotalEvents:  stats.TotalEvents,
			UniqueVenues: len(stats.Venues),
			Regions:      sortedKeys(stats.Regions),
			TopVenues:    stats.TopVenues(5),
		}
		merged = merged.Merge(stats)
	}

	summary := Summary{
		TotalEvents:  merged.TotalEvents,
		UniqueVenues: len(merged.Venues),
		TotalRegions: len(merged.Regions),
		Venues:       sortedKeys(merged.Venues),
		Regions:      sortedKeys(merged.Regions),
		Categories:   breakdown,
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if merged.Pricing.Samples > 0 {
		summary.PriceRange = &PriceRange{
			Lowest:  merged.Pricing.Min,
			Highest: merged.Pricing.Max,
		}
	}
	return summary
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
