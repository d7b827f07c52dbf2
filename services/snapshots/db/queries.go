package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const createSnapshot = `
INSERT INTO snapshot (platform, category, extracted_at, total_events, document)
VALUES (?, ?, ?, ?, ?)
`

type CreateSnapshotParams struct {
	Platform    string
	Category    string
	ExtractedAt string
	TotalEvents int64
	Document    []byte
}

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) error {
	_, err := q.db.ExecContext(
		ctx, createSnapshot,
		arg.Platform, arg.Category, arg.ExtractedAt, arg.TotalEvents, arg.Document,
	)
	return err
}

const getLatestSnapshot = `
SELECT document FROM snapshot
WHERE platform = ? AND category = ?
ORDER BY id DESC LIMIT 1
`

func (q *Queries) GetLatestSnapshot(ctx context.Context, platform, category string) ([]byte, error) {
	var document []byte
	err := q.db.QueryRowContext(ctx, getLatestSnapshot, platform, category).Scan(&document)
	return document, err
}

const getLatestSnapshotsByPlatform = `
SELECT s.category, s.document FROM snapshot s
JOIN (
    SELECT category, MAX(id) AS max_id FROM snapshot
    WHERE platform = ?
    GROUP BY category
) latest ON s.id = latest.max_id
`

type LatestSnapshotRow struct {
	Category string
	Document []byte
}

func (q *Queries) GetLatestSnapshotsByPlatform(ctx context.Context, platform string) ([]LatestSnapshotRow, error) {
	rows, err := q.db.QueryContext(ctx, getLatestSnapshotsByPlatform, platform)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LatestSnapshotRow
	for rows.Next() {
		var row LatestSnapshotRow
		if err := rows.Scan(&row.Category, &row.Document); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

const listSnapshots = `
SELECT platform, category, extracted_at, total_events FROM snapshot
ORDER BY id DESC
`

type ListSnapshotsRow struct {
	Platform    string
	Category    string
	ExtractedAt string
	TotalEvents int64
}

func (q *Queries) ListSnapshots(ctx context.Context) ([]ListSnapshotsRow, error) {
	rows, err := q.db.QueryContext(ctx, listSnapshots)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListSnapshotsRow
	for rows.Next() {
		var row ListSnapshotsRow
		err := rows.Scan(&row.Platform, &row.Category, &row.ExtractedAt, &row.TotalEvents)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
