package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"creator-dashboard/models"
)

// ErrNoSnapshot is returned by Latest when nothing has been mirrored yet.
var ErrNoSnapshot = errors.New("postgres: no snapshot stored")

const (
	insertBatchSize = 50
	retainSnapshots = 5
)

// rowColumns maps table columns to sheet headers, in table order.
var rowColumns = []struct {
	column string
	header string
}{
	{"month", models.ColMonth},
	{"date", models.ColDate},
	{"account", models.ColAccount},
	{"rate", models.ColRate},
	{"unique_id", models.ColUniqueID},
	{"video_link", models.ColVideoLink},
	{"product_id", models.ColProductID},
	{"category", models.ColCategory},
	{"product_name", models.ColProductName},
	{"content_type", models.ColContentType},
	{"views", models.ColViews},
	{"minimum_views", models.ColMinimumViews},
	{"status", models.ColStatus},
	{"location", models.ColLocation},
	{"payment", models.ColPayment},
}

// PostgresStore mirrors fetched snapshots so the dashboard can start, or keep
// serving, when the spreadsheet is unreachable.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			id         UUID        PRIMARY KEY,
			source     TEXT        NOT NULL,
			headers    TEXT[]      NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS snapshot_rows (
			snapshot_id   UUID    NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			position      INTEGER NOT NULL,
			month         TEXT,
			date          TEXT,
			account       TEXT,
			rate          TEXT,
			unique_id     TEXT,
			video_link    TEXT,
			product_id    TEXT,
			category      TEXT,
			product_name  TEXT,
			content_type  TEXT,
			views         TEXT,
			minimum_views TEXT,
			status        TEXT,
			location      TEXT,
			payment       TEXT,
			PRIMARY KEY (snapshot_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_snapshots_fetched_at ON snapshots(fetched_at DESC);
	`)
	return err
}

// Save stores a whole snapshot in one transaction and prunes old ones.
// Only the fixed sheet columns are mirrored.
func (ps *PostgresStore) Save(ctx context.Context, snap *models.Snapshot) error {
	tx, err := ps.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, source, headers, fetched_at) VALUES ($1, $2, $3, $4)`,
		snap.ID, snap.Source, pq.Array(mirroredHeaders(snap.Headers)), snap.FetchedAt,
	); err != nil {
		return fmt.Errorf("postgres: insert snapshot: %w", err)
	}

	for i := 0; i < len(snap.Rows); i += insertBatchSize {
		end := min(i+insertBatchSize, len(snap.Rows))
		query, args := insertRowsQuery(snap.ID, i, snap.Rows[i:end])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: insert rows %d-%d: %w", i, end, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY fetched_at DESC LIMIT $1
		)`, retainSnapshots); err != nil {
		return fmt.Errorf("postgres: prune: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

type snapshotRecord struct {
	ID        string         `db:"id"`
	Source    string         `db:"source"`
	Headers   pq.StringArray `db:"headers"`
	FetchedAt time.Time      `db:"fetched_at"`
}

// Latest retrieves the most recently fetched snapshot with its rows in sheet
// order.
func (ps *PostgresStore) Latest(ctx context.Context) (*models.Snapshot, error) {
	var rec snapshotRecord
	err := ps.db.GetContext(ctx, &rec, `
		SELECT id, source, headers, fetched_at
		FROM snapshots
		ORDER BY fetched_at DESC
		LIMIT 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch snapshot: %w", err)
	}

	var rows []models.Row
	if err := ps.db.SelectContext(ctx, &rows,
		`SELECT `+selectColumns()+` FROM snapshot_rows WHERE snapshot_id = $1 ORDER BY position`,
		rec.ID,
	); err != nil {
		return nil, fmt.Errorf("postgres: fetch rows: %w", err)
	}

	snap := &models.Snapshot{
		ID:        rec.ID,
		Source:    "postgres:" + rec.Source,
		Headers:   []string(rec.Headers),
		Rows:      make([]*models.Row, len(rows)),
		FetchedAt: rec.FetchedAt,
	}
	for i := range rows {
		snap.Rows[i] = &rows[i]
	}
	return snap, nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

// insertRowsQuery builds one multi-row INSERT for a batch starting at
// sheet position offset.
func insertRowsQuery(snapshotID string, offset int, batch []*models.Row) (string, []interface{}) {
	perRow := len(rowColumns) + 2
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*perRow)

	for idx, r := range batch {
		base := idx * perRow
		placeholders := make([]string, perRow)
		for p := range placeholders {
			placeholders[p] = fmt.Sprintf("$%d", base+p+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		valueArgs = append(valueArgs, snapshotID, offset+idx)
		for _, c := range rowColumns {
			valueArgs = append(valueArgs, r.Get(c.header))
		}
	}

	query := fmt.Sprintf(`INSERT INTO snapshot_rows (snapshot_id, position, %s) VALUES %s`,
		selectColumns(), strings.Join(valueStrings, ","))
	return query, valueArgs
}

func selectColumns() string {
	cols := make([]string, len(rowColumns))
	for i, c := range rowColumns {
		cols[i] = c.column
	}
	return strings.Join(cols, ", ")
}

func mirroredHeaders(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		for _, c := range rowColumns {
			if c.header == h {
				out = append(out, h)
				break
			}
		}
	}
	return out
}
