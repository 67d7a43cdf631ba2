package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jgoulah/loadanalyzer/pkg/models"
	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

// DB wraps the report archive connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		appliance_count INTEGER NOT NULL,
		total_kwh REAL NOT NULL,
		average_kwh REAL NOT NULL,
		max_name TEXT NOT NULL,
		max_kwh REAL NOT NULL,
		min_name TEXT NOT NULL,
		min_kwh REAL NOT NULL,
		published INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_reports_created_at ON analysis_reports(created_at);
	CREATE INDEX IF NOT EXISTS idx_reports_published ON analysis_reports(published);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// InsertReport archives an analysis report and sets its ID
func (db *DB) InsertReport(r *models.Report) error {
	query := `
	INSERT INTO analysis_reports (created_at, appliance_count, total_kwh, average_kwh, max_name, max_kwh, min_name, min_kwh)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := db.conn.Exec(query,
		createdAt.UTC().Format(timeLayout),
		r.ApplianceCount,
		r.TotalEnergyKWh,
		r.AverageEnergyKWh,
		r.MaxName,
		r.MaxEnergyKWh,
		r.MinName,
		r.MinEnergyKWh,
	)
	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading report id: %w", err)
	}
	r.ID = int(id)
	r.CreatedAt = createdAt.UTC()

	return nil
}

// ListReports retrieves archived reports, newest first. A limit of 0 returns all.
func (db *DB) ListReports(limit int) ([]models.Report, error) {
	query := `
	SELECT id, created_at, appliance_count, total_kwh, average_kwh, max_name, max_kwh, min_name, min_kwh
	FROM analysis_reports
	ORDER BY id DESC
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	return db.queryReports(query, args...)
}

// ListUnpublishedReports retrieves reports not yet sent to Home Assistant, oldest first
func (db *DB) ListUnpublishedReports() ([]models.Report, error) {
	query := `
	SELECT id, created_at, appliance_count, total_kwh, average_kwh, max_name, max_kwh, min_name, min_kwh
	FROM analysis_reports
	WHERE published = 0
	ORDER BY id ASC
	`
	return db.queryReports(query)
}

func (db *DB) queryReports(query string, args ...any) ([]models.Report, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var results []models.Report
	for rows.Next() {
		var r models.Report
		var createdAt string

		if err := rows.Scan(&r.ID, &createdAt, &r.ApplianceCount, &r.TotalEnergyKWh, &r.AverageEnergyKWh,
			&r.MaxName, &r.MaxEnergyKWh, &r.MinName, &r.MinEnergyKWh); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		r.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}

		results = append(results, r)
	}

	return results, rows.Err()
}

// MarkPublished marks a report as published
func (db *DB) MarkPublished(id int) error {
	query := `UPDATE analysis_reports SET published = 1 WHERE id = ?`
	_, err := db.conn.Exec(query, id)
	if err != nil {
		return fmt.Errorf("marking report as published: %w", err)
	}
	return nil
}
