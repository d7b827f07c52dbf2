package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	cfg := MelonStatsConfig()

	concerts := Assemble(
		SourceInfo{Platform: "melon", Category: "concerts", Name: "Concerts"},
		nil,
		Aggregate(cfg, []Record{
			{
				"placeName":  "Olympic Hall",
				"regionName": "Seoul",
				"seatGrades": []any{map[string]any{"basePrice": float64(50000)}},
			},
			{
				"placeName":  "Olympic Hall",
				"regionName": "Seoul",
			},
		}),
	)
	arts := Assemble(
		SourceInfo{Platform: "melon", Category: "arts", Name: "Arts & Theater"},
		nil,
		Aggregate(cfg, []Record{
			{
				"placeName":  "Blue Square",
				"regionName": "Busan",
				"seatGrades": []any{map[string]any{"basePrice": float64(150000)}},
			},
		}),
	)

	got := Summarize(map[string]Document{
		"concerts": concerts,
		"arts":     arts,
	})

	require.Equal(t, 3, got.TotalEvents)
	require.Equal(t, 2, got.UniqueVenues)
	require.Equal(t, 2, got.TotalRegions)
	diff := cmp.Diff([]string{"Blue Square", "Olympic Hall"}, got.Venues)
	require.Empty(t, diff)
	require.NotNil(t, got.PriceRange)
	require.Equal(t, float64(50000), got.PriceRange.Lowest)
	require.Equal(t, float64(150000), got.PriceRange.Highest)
	require.Equal(t, "Concerts", got.Categories["concerts"].Name)
	require.Equal(t, 2, got.Categories["concerts"].TotalEvents)
	require.NotEmpty(t, got.GeneratedAt)
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil)

	require.Equal(t, 0, got.TotalEvents)
	require.Empty(t, got.Venues)
	require.Nil(t, got.PriceRange)
}
