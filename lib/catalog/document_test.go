package catalog

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestEventsFromPayload(t *testing.T) {
	payload := map[string]any{
		"data": []any{
			map[string]any{"prodId": float64(1)},
			nil,
			"garbage entry",
			map[string]any{"prodId": float64(2)},
		},
	}

	got, err := EventsFromPayload(payload, "data")
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, float64(1), got[0]["prodId"])
	require.True(t, IsMarker(got[1]))
	require.Equal(t, "garbage entry", got[1][RawDataKey])
	require.Equal(t, float64(2), got[2]["prodId"])
}

func TestEventsFromPayloadFailures(t *testing.T) {
	testCases := []struct {
		name    string
		payload any
	}{
		{name: "nil payload", payload: nil},
		{name: "payload not an object", payload: []any{}},
		{name: "missing list key", payload: map[string]any{"other": []any{}}},
		{name: "list key not a list", payload: map[string]any{"data": "nope"}},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, err := EventsFromPayload(test.payload, "data")
			require.Error(t, err)
		})
	}
}

func TestAssemble(t *testing.T) {
	source := SourceInfo{
		Platform: "melon",
		Category: "concerts",
		Name:     "Concerts",
		Params:   map[string]string{"perfGenreCode": "GENRE_CON_ALL"},
	}
	stats := Aggregate(MelonStatsConfig(), nil)

	doc := Assemble(source, nil, stats)

	require.Equal(t, source, doc.Source)
	require.NotEmpty(t, doc.ExtractedAt)
	require.Equal(t, 0, doc.TotalEvents)
	require.NotNil(t, doc.Events)

	// the output document must round-trip through JSON
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Contains(t, decoded, "extracted_at")
	require.Contains(t, decoded, "summary_statistics")
	require.Contains(t, decoded, "events")
}

func TestPipelineProcess(t *testing.T) {
	payload := map[string]any{
		"data": []any{
			map[string]any{
				"prodId":        float64(100),
				"placeName":     "Olympic Hall",
				"regionName":    "Seoul",
				"perfTypeCode":  "CONCERT",
				"seatGradeJson": `{"data":{"list":[{"seatGradeName":"R","basePrice":120000},{"seatGradeName":"S","basePrice":90000}]}}`,
				"saleTypeJson":  `{"data":{"list":[{"pocName":"Web","pocCode":"W","saleTypeCodeList":[{"saleTypeCode":"GEN"}]}]}}`,
			},
			map[string]any{
				"prodId":        float64(101),
				"perfTypeCode":  "CONCERT",
				"seatGradeJson": "not json",
			},
		},
	}

	doc, err := MelonPipeline().Process(SourceInfo{Platform: "melon", Category: "concerts"}, payload)
	require.NoError(t, err)

	require.Equal(t, 2, doc.TotalEvents)
	require.Equal(t, 2, doc.Stats.EventTypes["CONCERT"])
	require.Equal(t, float64(90000), doc.Stats.Pricing.Min)
	require.Equal(t, float64(120000), doc.Stats.Pricing.Max)
	require.Equal(t, 2, doc.Stats.Pricing.Samples)
	diff := cmp.Diff(map[string]int{"Olympic Hall": 1}, doc.Stats.Venues)
	require.Empty(t, diff)

	first := doc.Events[0]
	require.Len(t, first["seatGrades"], 2)
	require.Len(t, first["saleTypes"], 1)
	second := doc.Events[1]
	require.Equal(t, "not json", second["seatGradeJson"])
	require.Equal(t, []any{}, second["seatGrades"])
}

func TestPipelineProcessBadPayload(t *testing.T) {
	_, err := MelonPipeline().Process(SourceInfo{Platform: "melon"}, "not a payload")
	require.Error(t, err)
}
