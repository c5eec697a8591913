// Package db provides an optional Postgres archive of merged article records
// for querying outside the spreadsheet report. The JSON store remains the
// pipeline's checkpoint; the archive is write-through when configured.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/zombar/blogaudit/models"
)

// DB wraps the database connection and provides data access methods
type DB struct {
	conn *sql.DB
}

// Config contains database configuration
type Config struct {
	DSN string // PostgreSQL connection string
}

// New creates a new database connection and runs pending migrations.
func New(config Config) (*DB, error) {
	conn, err := sql.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	db := &DB{conn: conn}

	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// SaveMergedRecord upserts one merged record, keyed by URL so a re-run
// overwrites the previous audit of the same article.
func (db *DB) SaveMergedRecord(record *models.MergedRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	query := `
		INSERT INTO audit_merged_records
			(id, url, run_id, record, api_cost, input_tokens, output_tokens, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT(url) DO UPDATE SET
			id = excluded.id,
			run_id = excluded.run_id,
			record = excluded.record,
			api_cost = excluded.api_cost,
			input_tokens = excluded.input_tokens,
			output_tokens = excluded.output_tokens,
			updated_at = excluded.updated_at
	`

	cost := record.APICost
	if len(cost) > 0 && cost[0] == '$' {
		cost = cost[1:]
	}

	_, err = db.conn.Exec(
		query,
		record.ID,
		record.URL,
		record.RunID,
		string(payload),
		cost,
		record.InputTokens,
		record.OutputTokens,
		record.ProcessedAt,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	return nil
}

// GetMergedRecord fetches one archived record by unique id. Returns nil when
// no record exists.
func (db *DB) GetMergedRecord(id string) (*models.MergedRecord, error) {
	var payload []byte
	err := db.conn.QueryRow(
		"SELECT record FROM audit_merged_records WHERE id = $1", id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	var record models.MergedRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	return &record, nil
}

// ListRunRecords returns the archived records for one batch run, oldest first.
func (db *DB) ListRunRecords(runID string) ([]models.MergedRecord, error) {
	rows, err := db.conn.Query(
		"SELECT record FROM audit_merged_records WHERE run_id = $1 ORDER BY created_at", runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query run records: %w", err)
	}
	defer rows.Close()

	var records []models.MergedRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		var record models.MergedRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
