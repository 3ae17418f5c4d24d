package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresClient keeps daily counters of nearby lookups.
type PostgresClient struct {
	db *sql.DB
}

type LookupStats struct {
	Date     time.Time `json:"date"`
	Lookups  int       `json:"lookups"`
	Returned int       `json:"returned"`
	Excluded int       `json:"excluded"`
}

func NewPostgresClient(ctx context.Context, connStr string) (*PostgresClient, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	client := &PostgresClient{db: db}

	if err := client.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return client, nil
}

func (p *PostgresClient) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS nearby_lookups (
		date DATE PRIMARY KEY,
		lookups INT NOT NULL DEFAULT 0,
		returned INT NOT NULL DEFAULT 0,
		excluded INT NOT NULL DEFAULT 0,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

func (p *PostgresClient) Close() error {
	return p.db.Close()
}

// RecordLookup adds one lookup to the counters for the day of at.
func (p *PostgresClient) RecordLookup(ctx context.Context, at time.Time, returned, excluded int) error {
	query := `
		INSERT INTO nearby_lookups (date, lookups, returned, excluded)
		VALUES ($1, 1, $2, $3)
		ON CONFLICT (date) DO UPDATE SET
			lookups = nearby_lookups.lookups + 1,
			returned = nearby_lookups.returned + EXCLUDED.returned,
			excluded = nearby_lookups.excluded + EXCLUDED.excluded,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := p.db.ExecContext(ctx, query, at.UTC().Format("2006-01-02"), returned, excluded)
	return err
}

func (p *PostgresClient) GetDailyStats(ctx context.Context, startDate, endDate time.Time) ([]LookupStats, error) {
	query := `
		SELECT date, lookups, returned, excluded
		FROM nearby_lookups
		WHERE date BETWEEN $1 AND $2
		ORDER BY date DESC
	`

	rows, err := p.db.QueryContext(ctx, query, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []LookupStats
	for rows.Next() {
		var record LookupStats
		if err := rows.Scan(
			&record.Date,
			&record.Lookups,
			&record.Returned,
			&record.Excluded,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (p *PostgresClient) GetTotalStats(ctx context.Context) (*LookupStats, error) {
	query := `
		SELECT
			COALESCE(SUM(lookups), 0),
			COALESCE(SUM(returned), 0),
			COALESCE(SUM(excluded), 0)
		FROM nearby_lookups
	`

	var record LookupStats
	err := p.db.QueryRowContext(ctx, query).Scan(
		&record.Lookups,
		&record.Returned,
		&record.Excluded,
	)
	if err != nil {
		return nil, err
	}

	return &record, nil
}
