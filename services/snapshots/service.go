// Package snapshots persists assembled batch documents so repeated
// scrapes of the same catalog can be compared and summarized later.
package snapshots

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"ticketsnap-backend/lib/catalog"
	"ticketsnap-backend/services/snapshots/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/snapshots")

type Service struct {
	db  *sql.DB
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{
		db:  database,
		qry: db.New(database),
	}
}

func (s Service) Save(ctx context.Context, doc catalog.Document) error {
	ctx, span := tracer.Start(ctx, "Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("platform", doc.Source.Platform),
		attribute.String("category", doc.Source.Category),
		attribute.Int("total_events", doc.TotalEvents),
	)

	serialized, err := json.Marshal(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("serialize document: %w", err)
	}

	err = s.qry.CreateSnapshot(ctx, db.CreateSnapshotParams{
		Platform:    doc.Source.Platform,
		Category:    doc.Source.Category,
		ExtractedAt: doc.ExtractedAt,
		TotalEvents: int64(doc.TotalEvents),
		Document:    serialized,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Latest returns the most recent document stored for a (platform,
// category) pair. sql.ErrNoRows passes through when nothing was stored
// yet.
func (s Service) Latest(ctx context.Context, platform, category string) (catalog.Document, error) {
	ctx, span := tracer.Start(ctx, "Latest")
	defer span.End()

	raw, err := s.qry.GetLatestSnapshot(ctx, platform, category)
	if err != nil {
		if err != sql.ErrNoRows {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return catalog.Document{}, err
	}

	var doc catalog.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return catalog.Document{}, fmt.Errorf("deserialize document: %w", err)
	}
	return doc, nil
}

// LatestByPlatform returns the most recent document per category of a
// platform, keyed by category, the input shape catalog.Summarize wants.
func (s Service) LatestByPlatform(ctx context.Context, platform string) (map[string]catalog.Document, error) {
	ctx, span := tracer.Start(ctx, "LatestByPlatform")
	defer span.End()

	rows, err := s.qry.GetLatestSnapshotsByPlatform(ctx, platform)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make(map[string]catalog.Document, len(rows))
	for _, row := range rows {
		var doc catalog.Document
		if err := json.Unmarshal(row.Document, &doc); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("deserialize document for %q: %w", row.Category, err)
		}
		out[row.Category] = doc
	}
	return out, nil
}

type Entry struct {
	Platform    string
	Category    string
	ExtractedAt string
	TotalEvents int64
}

func (s Service) List(ctx context.Context) ([]Entry, error) {
	ctx, span := tracer.Start(ctx, "List")
	defer span.End()

	rows, err := s.qry.ListSnapshots(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make([]Entry, len(rows))
	for i, row := range rows {
		out[i] = Entry(row)
	}
	return out, nil
}
