// Package store is the table store behind the donor, recipient and hospital
// read paths. Each table holds JSON attribute bags keyed by id, on postgres
// or sqlite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Tables.
const (
	Donors     = "donors"
	Recipients = "recipients"
	Hospitals  = "hospitals"
)

// Drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// PageSize bounds a single Scan.
const PageSize = 100

var (
	ErrUnknownTable     = errors.New("unknown table")
	ErrStoreUnavailable = errors.New("table store unavailable")
)

var knownTables = map[string]bool{Donors: true, Recipients: true, Hospitals: true}

type TableStore struct {
	db     *sql.DB
	driver string
}

// New wraps an open database. driver selects the placeholder syntax.
func New(db *sql.DB, driver string) *TableStore {
	return &TableStore{db: db, driver: driver}
}

// Open connects with the named driver and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*TableStore, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One connection keeps an in-memory database shared across queries.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return New(db, driver), nil
}

func (s *TableStore) Driver() string { return s.driver }
func (s *TableStore) Close() error   { return s.db.Close() }

func (s *TableStore) placeholder(n int) string {
	if s.driver == DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Scan returns the first page of a table, ordered by id.
func (s *TableStore) Scan(ctx context.Context, table string) ([]Record, error) {
	if !knownTables[table] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	if s == nil || s.db == nil {
		return nil, ErrStoreUnavailable
	}
	query := fmt.Sprintf("SELECT attributes FROM %s ORDER BY id LIMIT %s", table, s.placeholder(1))
	rows, err := s.db.QueryContext(ctx, query, PageSize)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode %s record: %w", table, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return out, nil
}

// Put inserts or replaces the record stored under id.
func (s *TableStore) Put(ctx context.Context, table, id string, rec Record) error {
	if !knownTables[table] {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	if s == nil || s.db == nil {
		return ErrStoreUnavailable
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", table, err)
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (id, attributes) VALUES (%s, %s) ON CONFLICT (id) DO UPDATE SET attributes = excluded.attributes",
		table, s.placeholder(1), s.placeholder(2))
	if _, err := s.db.ExecContext(ctx, query, id, string(payload)); err != nil {
		return fmt.Errorf("put %s/%s: %w", table, id, err)
	}
	return nil
}
