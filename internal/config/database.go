package config

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SetupDatabase opens the in-memory SQLite database backing the record and
// user stores. The shared-cache DSN keeps the database alive for the process
// lifetime while every connection in the pool sees the same data; nothing
// survives a restart.
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", cfg.Database.Name)

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single writer connection avoids SQLITE_LOCKED on the shared cache.
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the schema on start
func createTables(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			role TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sale_records (
			id INTEGER PRIMARY KEY,
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			customer_id TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			product_name TEXT NOT NULL,
			product_id TEXT NOT NULL,
			salesperson TEXT NOT NULL,
			region TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price REAL NOT NULL,
			discount REAL NOT NULL,
			total_amount REAL NOT NULL,
			image TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS customer_visibility (
			field TEXT PRIMARY KEY,
			visible INTEGER NOT NULL
		)
	`)
	return err
}
