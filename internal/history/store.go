package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"myfuel/pkg/fuel"
)

// Store keeps the price history in a local SQLite database: one upserted
// row per station plus append-only price rows.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// NewStore opens (and if needed creates) the history database.
func NewStore(ctx context.Context, dbPath string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := configurePragmas(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return &Store{db: db, log: logger}, nil
}

func configurePragmas(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 10000;"); err != nil {
		return fmt.Errorf("error setting busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("error setting journal mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA synchronous = NORMAL;"); err != nil {
		return fmt.Errorf("error setting synchronous: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		return fmt.Errorf("error enabling foreign keys: %w", err)
	}
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS stations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ext_id TEXT UNIQUE NOT NULL,
		brand TEXT,
		address TEXT,
		latitude REAL,
		longitude REAL,
		postal_code TEXT,
		province TEXT,
		municipality TEXT
	);
	CREATE TABLE IF NOT EXISTS prices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		station_id INTEGER NOT NULL REFERENCES stations(id),
		fuel_type TEXT NOT NULL,
		price REAL NOT NULL,
		recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_stations_ext_id ON stations(ext_id);
	CREATE INDEX IF NOT EXISTS idx_prices_station_id ON prices(station_id);
	CREATE INDEX IF NOT EXISTS idx_prices_recorded_at ON prices(recorded_at);
	`

	_, err := db.ExecContext(ctx, createTableSQL)
	if err != nil {
		return fmt.Errorf("error creating tables: %w", err)
	}
	return nil
}

// Record upserts the station row and appends one price row per fuel the
// station currently sells.
func (s *Store) Record(ctx context.Context, station fuel.Station) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			s.log.Warn("rollback error", "error", err)
		}
	}()

	var stationID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO stations (ext_id, brand, address, latitude, longitude, postal_code, province, municipality)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ext_id) DO UPDATE SET
			brand = excluded.brand,
			address = excluded.address,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			postal_code = excluded.postal_code,
			province = excluded.province,
			municipality = excluded.municipality
		RETURNING id
	`, station.ExternalID(), station.Brand, station.Address,
		station.Lat, station.Lon, station.PostalCode, station.Province, station.Municipality,
	).Scan(&stationID)
	if err != nil {
		return fmt.Errorf("error upserting station %s: %w", station.ExternalID(), err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO prices (station_id, fuel_type, price) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("error preparing price insert: %w", err)
	}
	defer stmt.Close()

	// Iterate the fuel type table rather than the map for a stable order.
	for _, ft := range fuel.FuelTypes {
		price, ok := station.Prices[ft.Key]
		if !ok {
			continue
		}
		if _, err := stmt.ExecContext(ctx, stationID, ft.Key, price); err != nil {
			return fmt.Errorf("error inserting price %s for %s: %w", ft.Key, station.ExternalID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// SyncAll records every station in one pass, logging and skipping
// individual failures. Used by the CLI sync command.
func (s *Store) SyncAll(ctx context.Context, stations []fuel.Station) error {
	s.log.Info("starting history sync", "stations", len(stations))

	var failed int
	for i := range stations {
		if err := s.Record(ctx, stations[i]); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warn("error recording station", "ext_id", stations[i].ExternalID(), "error", err)
			failed++
		}
	}

	s.log.Info("history sync completed", "stations", len(stations), "failed", failed)
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
