package snapshots

import (
	"context"
	"database/sql"
	"testing"

	"ticketsnap-backend/lib/catalog"
	"ticketsnap-backend/lib/testutil"
	"ticketsnap-backend/services/snapshots/db"

	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) Service {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/snapshots",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)
	return NewService(result.DB)
}

func document(platform, category, extractedAt string, events []catalog.Record) catalog.Document {
	stats := catalog.Aggregate(catalog.StatsConfig{VenueField: "venue"}, events)
	return catalog.Document{
		Source: catalog.SourceInfo{
			Platform: platform,
			Category: category,
			Name:     category,
		},
		ExtractedAt: extractedAt,
		TotalEvents: len(events),
		Stats:       stats,
		Events:      events,
	}
}

func TestSaveAndLatest(t *testing.T) {
	service := setup(t)
	ctx := context.Background()

	first := document("melon", "concerts", "2025-01-01T00:00:00Z", []catalog.Record{
		{"title": "Show A", "venue": "Olympic Hall"},
	})
	second := document("melon", "concerts", "2025-01-02T00:00:00Z", []catalog.Record{
		{"title": "Show A", "venue": "Olympic Hall"},
		{"title": "Show B", "venue": "Blue Square"},
	})

	require.NoError(t, service.Save(ctx, first))
	require.NoError(t, service.Save(ctx, second))

	latest, err := service.Latest(ctx, "melon", "concerts")
	require.NoError(t, err)
	require.Equal(t, "2025-01-02T00:00:00Z", latest.ExtractedAt)
	require.Equal(t, 2, latest.TotalEvents)
	require.Len(t, latest.Events, 2)
	require.Equal(t, "Show B", latest.Events[1]["title"])
}

func TestLatestMissing(t *testing.T) {
	service := setup(t)

	_, err := service.Latest(context.Background(), "melon", "concerts")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLatestByPlatform(t *testing.T) {
	service := setup(t)
	ctx := context.Background()

	require.NoError(t, service.Save(ctx, document(
		"melon", "concerts", "2025-01-01T00:00:00Z",
		[]catalog.Record{{"title": "Old", "venue": "Olympic Hall"}},
	)))
	require.NoError(t, service.Save(ctx, document(
		"melon", "concerts", "2025-01-03T00:00:00Z",
		[]catalog.Record{{"title": "New", "venue": "Olympic Hall"}},
	)))
	require.NoError(t, service.Save(ctx, document(
		"melon", "arts", "2025-01-02T00:00:00Z",
		[]catalog.Record{{"title": "Play", "venue": "Daehakro"}},
	)))
	require.NoError(t, service.Save(ctx, document(
		"yes24", "concerts", "2025-01-02T00:00:00Z",
		[]catalog.Record{{"title": "Other", "venue": "Elsewhere"}},
	)))

	docs, err := service.LatestByPlatform(ctx, "melon")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "New", docs["concerts"].Events[0]["title"])
	require.Equal(t, "Play", docs["arts"].Events[0]["title"])
}

func TestList(t *testing.T) {
	service := setup(t)
	ctx := context.Background()

	require.NoError(t, service.Save(ctx, document(
		"melon", "concerts", "2025-01-01T00:00:00Z",
		[]catalog.Record{{"title": "Show", "venue": "Olympic Hall"}},
	)))
	require.NoError(t, service.Save(ctx, document(
		"yes24", "concerts", "2025-01-02T00:00:00Z",
		[]catalog.Record{},
	)))

	entries, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "yes24", entries[0].Platform)
	require.Equal(t, int64(0), entries[0].TotalEvents)
	require.Equal(t, "melon", entries[1].Platform)
	require.Equal(t, int64(1), entries[1].TotalEvents)
}
