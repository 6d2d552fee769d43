package distance

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// Entry is one directed airport pair with its planar distance.
type Entry struct {
	Origin     string
	OriginName string
	Dest       string
	DestName   string
	Distance   float64
}

// Table materializes and reads the airport-to-airport distance table.
type Table struct {
	db *sql.DB
}

// New creates a new Table instance
func New(db *sql.DB) *Table {
	return &Table{db: db}
}

// Build creates the distances table from the full cross product of the
// airports table with itself. Distance is planar Euclidean distance on
// (lat, lon), so it is an approximation, not a geodesic. The filter
// keeps strictly positive distances: self-pairs drop out, and so does
// any pair of distinct airports that share exact coordinates. The
// table is built once per run; rebuilding requires a fresh database.
func (t *Table) Build(ctx context.Context) error {
	query := `
		CREATE TABLE distances AS
		SELECT
			a.faa AS origin,
			a.name AS origin_name,
			b.faa AS dest,
			b.name AS dest_name,
			sqrt(pow(a.lat - b.lat, 2) + pow(a.lon - b.lon, 2)) AS distance
		FROM airports a
		CROSS JOIN airports b
		WHERE distance > 0
	`

	if _, err := t.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to build distances table: %w", err)
	}

	count, err := t.Count(ctx)
	if err != nil {
		return err
	}

	log.Printf("Distance table built: %d airport pairs", count)
	return nil
}

// Count returns the number of pairs in the distances table.
func (t *Table) Count(ctx context.Context) (int64, error) {
	var count int64
	err := t.db.QueryRowContext(ctx, "SELECT count(*) FROM distances").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count distances: %w", err)
	}
	return count, nil
}

// Head returns the first ten pairs in code order, for display.
func (t *Table) Head(ctx context.Context) ([]Entry, error) {
	return t.query(ctx, `
		SELECT origin, origin_name, dest, dest_name, distance
		FROM distances
		ORDER BY origin, dest
		LIMIT 10
	`)
}

// Entries returns every pair in code order.
func (t *Table) Entries(ctx context.Context) ([]Entry, error) {
	return t.query(ctx, `
		SELECT origin, origin_name, dest, dest_name, distance
		FROM distances
		ORDER BY origin, dest
	`)
}

func (t *Table) query(ctx context.Context, query string) ([]Entry, error) {
	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query distances: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Origin, &e.OriginName, &e.Dest, &e.DestName, &e.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan distance: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
