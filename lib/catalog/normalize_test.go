package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func tierRules() []FieldRule {
	return []FieldRule{
		{
			Field:  "priceTiersJson",
			Target: "priceTiers",
			Derive: DeriveListAt("data", "list"),
		},
		{
			Field:  "channelsJson",
			Target: "channels",
			Derive: DeriveGroupFanout(FanoutRule{
				Path:      []string{"data", "list"},
				GroupKeys: []string{"pocName"},
				ItemsKey:  "saleTypeCodeList",
			}),
		},
	}
}

func TestNormalizePriceTiers(t *testing.T) {
	n := NewNormalizer(tierRules())

	got := n.Normalize(Record{
		"prodId":         float64(1001),
		"priceTiersJson": `{"data":{"list":[{"id":1,"basePrice":50000}]}}`,
	})

	expected := Record{
		"prodId": float64(1001),
		"priceTiersJson": map[string]any{
			"data": map[string]any{
				"list": []any{map[string]any{"id": float64(1), "basePrice": float64(50000)}},
			},
		},
		"priceTiers": []any{
			map[string]any{"id": float64(1), "basePrice": float64(50000)},
		},
		"channels": []any{},
	}
	diff := cmp.Diff(expected, got)
	require.Empty(t, diff)
}

func TestNormalizeChannelFanout(t *testing.T) {
	n := NewNormalizer(tierRules())

	got := n.Normalize(Record{
		"channelsJson": `{"data":{"list":[{"pocName":"A","saleTypeCodeList":[{"code":"X"},{"code":"Y"}]}]}}`,
	})

	expected := []any{
		Record{"pocName": "A", "code": "X"},
		Record{"pocName": "A", "code": "Y"},
	}
	diff := cmp.Diff(expected, got["channels"])
	require.Empty(t, diff)
}

func TestNormalizeInvalidEmbeddedJson(t *testing.T) {
	n := NewNormalizer(tierRules())

	got := n.Normalize(Record{"channelsJson": "not json"})

	require.Equal(t, "not json", got["channelsJson"])
	diff := cmp.Diff([]any{}, got["channels"])
	require.Empty(t, diff)
	diff = cmp.Diff([]any{}, got["priceTiers"])
	require.Empty(t, diff)
}

func TestNormalizeTotality(t *testing.T) {
	n := NewNormalizer(MelonFieldRules())

	// none of these may panic or error, every failure mode degrades
	// to "empty" or "unchanged"
	testCases := []Record{
		{},
		{"seatGradeJson": nil},
		{"seatGradeJson": float64(7)},
		{"seatGradeJson": `[1,2,3]`},
		{"seatGradeJson": `{"data":{"list":"not a list"}}`},
		{"saleTypeJson": `{"data":{"list":[{"pocName":"A","saleTypeCodeList":"oops"}]}}`},
		{"saleTypeJson": `{"data":{"list":[null,42,{"pocName":"B"}]}}`},
		{"perfRelatJson": map[string]any{"data": []any{}}},
		{"unrelated": map[string]any{"deep": []any{map[string]any{"x": nil}}}},
	}

	for _, rec := range testCases {
		got := n.Normalize(rec)
		require.IsType(t, []any{}, got["seatGrades"])
		require.IsType(t, []any{}, got["saleTypes"])
		require.IsType(t, []any{}, got["perfRelat"])
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(MelonFieldRules())

	rec := Record{
		"prodId":        "2002",
		"seatGradeJson": `{"data":{"list":[{"seatGradeName":"VIP","basePrice":99000}]}}`,
		"saleTypeJson":  `{"data":{"list":[{"pocName":"web","pocCode":"P1","saleTypeCodeList":[{"saleTypeCode":"S"}]}]}}`,
		"perfRelatJson": "not json at all",
	}

	once := n.Normalize(rec)
	snapshot := cloneRecord(t, once)
	twice := n.Normalize(once)

	diff := cmp.Diff(snapshot, twice)
	require.Empty(t, diff)
}

func TestNormalizePassThrough(t *testing.T) {
	n := NewNormalizer(MelonFieldRules())

	nested := map[string]any{"deep": []any{map[string]any{"keep": "me"}}}
	got := n.Normalize(Record{"other": nested, "count": float64(3)})

	require.Equal(t, nested, got["other"])
	require.Equal(t, float64(3), got["count"])
}

func TestNormalizeAllReplacesBadRecords(t *testing.T) {
	rules := []FieldRule{{
		Field:  "payload",
		Target: "derived",
		Derive: func(decoded any) []any {
			panic("boom")
		},
	}}
	n := NewNormalizer(rules)

	got := n.NormalizeAll([]Record{
		{"payload": "a"},
		nil,
		{"payload": "b"},
	})

	require.Len(t, got, 2)
	for _, rec := range got {
		require.True(t, IsMarker(rec))
		require.Equal(t, "boom", rec[ErrorKey])
	}
}

func cloneRecord(t *testing.T, rec Record) Record {
	t.Helper()
	out := Record{}
	for k, v := range rec {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := map[string]any{}
		for k, item := range tv {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = cloneValue(item)
		}
		return out
	}
	return v
}
