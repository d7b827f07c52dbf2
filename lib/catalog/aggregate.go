package catalog

import (
	"math"
	"slices"
)

// StatsConfig names the record fields each distribution is built
// from. An empty field name disables that dimension. Like the field
// rules, this is configuration per source platform.
type StatsConfig struct {
	CategoryField string
	VenueField    string
	RegionField   string

	// PriceCollection is the derived collection holding price tiers,
	// PriceField the numeric field inside each tier.
	PriceCollection string
	PriceField      string

	StartDateField string
	EndDateField   string
	// SentinelDates are values the platform uses to mean "no date";
	// they are excluded from the date range.
	SentinelDates []string
}

// MelonStatsConfig matches ticket.melon.com prodList records after
// normalization with MelonFieldRules.
func MelonStatsConfig() StatsConfig {
	return StatsConfig{
		CategoryField:   "perfTypeCode",
		VenueField:      "placeName",
		RegionField:     "regionName",
		PriceCollection: "seatGrades",
		PriceField:      "basePrice",
	}
}

// MelonGlobalStatsConfig matches tkglobal.melon.com endProdList
// records. The global API reports an open-ended run as 99991231.
func MelonGlobalStatsConfig() StatsConfig {
	return StatsConfig{
		CategoryField:  "PERF_TYPE_EN",
		VenueField:     "PLACE_HALL_NAME_EN",
		StartDateField: "PERF_START_DT",
		EndDateField:   "PERF_END_DT",
		SentinelDates:  []string{"99991231"},
	}
}

type PriceStats struct {
	Min     float64 `json:"min_price"`
	Max     float64 `json:"max_price"`
	Mean    float64 `json:"avg_price"`
	Samples int     `json:"total_price_points"`
}

type DateRange struct {
	EarliestStart string `json:"earliest_start,omitempty"`
	LatestEnd     string `json:"latest_end,omitempty"`
}

// Stats is the descriptive report for one batch. Every distribution
// counts only the records that carried a non-empty value for that
// dimension; TotalEvents counts them all.
type Stats struct {
	TotalEvents int            `json:"total_events"`
	EventTypes  map[string]int `json:"event_types"`
	Venues      map[string]int `json:"venues"`
	Regions     map[string]int `json:"regions"`
	Pricing     PriceStats     `json:"pricing"`
	Dates       DateRange      `json:"date_range"`
}

// Aggregate builds all distributions in a single pass over the batch.
// An empty batch yields a zero report with empty, non-nil maps.
func Aggregate(cfg StatsConfig, events []Record) Stats {
	stats := Stats{
		EventTypes: map[string]int{},
		Venues:     map[string]int{},
		Regions:    map[string]int{},
	}
	var sum float64

	for _, ev := range events {
		stats.TotalEvents++

		countLabel(stats.EventTypes, ev[cfg.CategoryField])
		countLabel(stats.Venues, ev[cfg.VenueField])
		countLabel(stats.Regions, ev[cfg.RegionField])

		if cfg.PriceCollection != "" {
			tiers, _ := ev[cfg.PriceCollection].([]any)
			for _, t := range tiers {
				tier, ok := t.(map[string]any)
				if !ok {
					continue
				}
				price, ok := numericValue(tier[cfg.PriceField])
				if !ok {
					continue
				}
				if stats.Pricing.Samples == 0 || price < stats.Pricing.Min {
					stats.Pricing.Min = price
				}
				if stats.Pricing.Samples == 0 || price > stats.Pricing.Max {
					stats.Pricing.Max = price
				}
				sum += price
				stats.Pricing.Samples++
			}
		}

		if cfg.StartDateField != "" {
			if d, ok := dateValue(ev[cfg.StartDateField], cfg.SentinelDates); ok {
				if stats.Dates.EarliestStart == "" || d < stats.Dates.EarliestStart {
					stats.Dates.EarliestStart = d
				}
			}
		}
		if cfg.EndDateField != "" {
			if d, ok := dateValue(ev[cfg.EndDateField], cfg.SentinelDates); ok {
				if stats.Dates.LatestEnd == "" || d > stats.Dates.LatestEnd {
					stats.Dates.LatestEnd = d
				}
			}
		}
	}

	if stats.Pricing.Samples > 0 {
		stats.Pricing.Mean = round2(sum / float64(stats.Pricing.Samples))
	}
	return stats
}

// Merge combines two reports into one, as if their batches had been
// aggregated together. It is associative and order-independent, so
// per-category reports can be folded in any order.
func (s Stats) Merge(other Stats) Stats {
	out := Stats{
		TotalEvents: s.TotalEvents + other.TotalEvents,
		EventTypes:  mergeCounts(s.EventTypes, other.EventTypes),
		Venues:      mergeCounts(s.Venues, other.Venues),
		Regions:     mergeCounts(s.Regions, other.Regions),
	}

	out.Pricing = s.Pricing
	if other.Pricing.Samples > 0 {
		if out.Pricing.Samples == 0 {
			out.Pricing = other.Pricing
		} else {
			out.Pricing.Min = math.Min(out.Pricing.Min, other.Pricing.Min)
			out.Pricing.Max = math.Max(out.Pricing.Max, other.Pricing.Max)
			total := out.Pricing.Samples + other.Pricing.Samples
			out.Pricing.Mean = round2(
				(out.Pricing.Mean*float64(out.Pricing.Samples) +
					other.Pricing.Mean*float64(other.Pricing.Samples)) / float64(total),
			)
			out.Pricing.Samples = total
		}
	}

	out.Dates = s.Dates
	if d := other.Dates.EarliestStart; d != "" {
		if out.Dates.EarliestStart == "" || d < out.Dates.EarliestStart {
			out.Dates.EarliestStart = d
		}
	}
	if d := other.Dates.LatestEnd; d != "" {
		if out.Dates.LatestEnd == "" || d > out.Dates.LatestEnd {
			out.Dates.LatestEnd = d
		}
	}
	return out
}

// TopVenues returns up to n venue names ordered by descending count,
// ties broken by name.
func (s Stats) TopVenues(n int) []string {
	names := make([]string, 0, len(s.Venues))
	for name := range s.Venues {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if s.Venues[a] != s.Venues[b] {
			return s.Venues[b] - s.Venues[a]
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

func countLabel(counts map[string]int, value any) {
	label, ok := value.(string)
	if !ok || label == "" {
		return
	}
	counts[label]++
}

func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func dateValue(value any, sentinels []string) (string, bool) {
	d, ok := value.(string)
	if !ok || d == "" || slices.Contains(sentinels, d) {
		return "", false
	}
	return d, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mergeCounts(a, b map[string]int) map[string]int {
	out := make(map[string]int, len(a)+len(b))
	for k, v := range a {
		out[k] += v
	}
	for k, v := range b {
		out[k] += v
	}
	return out
}
