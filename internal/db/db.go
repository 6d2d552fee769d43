package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/bartonicek/sql-example-report/internal/dataset"
)

// schemaSQL is the single source of truth for the report database schema.
// It is embedded at compile time from schema.sql.
//
//go:embed schema.sql
var schemaSQL string

// DB wraps an in-memory DuckDB database holding one report run's data.
type DB struct {
	conn *sql.DB
}

// Open creates a fresh in-memory analytical database. Every run starts
// from an empty database, so there is nothing to connect to on disk.
func Open() (*DB, error) {
	conn, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The report is a single synchronous pass. One connection keeps
	// every statement on the same in-memory database.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Connected to in-memory DuckDB database")
	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection for use by queries
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// EnsureSchema creates the flights and airports tables from the
// embedded schema.sql. It must run exactly once per database; a second
// call fails because the tables already exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, schemaSQL)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	log.Println("Database schema created (from embedded schema.sql)")
	return nil
}

// InsertFlights bulk-loads flight rows inside a single transaction.
// Nil pointer fields become SQL NULLs.
func (db *DB) InsertFlights(ctx context.Context, flights []dataset.Flight) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO flights (
			carrier, origin, dest,
			dep_time, sched_dep_time, dep_delay,
			arr_time, sched_arr_time, arr_delay,
			distance, hour, minute
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare flights statement: %w", err)
	}
	defer stmt.Close()

	for _, f := range flights {
		_, err := stmt.ExecContext(ctx,
			f.Carrier, f.Origin, f.Dest,
			f.DepTime, f.SchedDepTime, f.DepDelay,
			f.ArrTime, f.SchedArrTime, f.ArrDelay,
			f.Distance, f.Hour, f.Minute,
		)
		if err != nil {
			return fmt.Errorf("failed to insert flight %s %s-%s: %w", f.Carrier, f.Origin, f.Dest, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit flights: %w", err)
	}

	log.Printf("Loaded %d flights", len(flights))
	return nil
}

// InsertAirports bulk-loads airport rows inside a single transaction.
func (db *DB) InsertAirports(ctx context.Context, airports []dataset.Airport) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO airports (faa, name, lat, lon) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare airports statement: %w", err)
	}
	defer stmt.Close()

	for _, a := range airports {
		if _, err := stmt.ExecContext(ctx, a.FAA, a.Name, a.Lat, a.Lon); err != nil {
			return fmt.Errorf("failed to insert airport %s: %w", a.FAA, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit airports: %w", err)
	}

	log.Printf("Loaded %d airports", len(airports))
	return nil
}
