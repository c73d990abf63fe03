package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"soil_monitor/internal/models"
)

type SoilSQLite struct {
	db *sql.DB
}

func NewSoilSQLite(db *sql.DB) *SoilSQLite {
	return &SoilSQLite{db: db}
}

const (
	currentRowID = 1

	upsertCurrentSQL = `
		INSERT INTO soil_current (id, moisture, ts)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			moisture=excluded.moisture,
			ts=excluded.ts
	`

	selectCurrentSQL = `
		SELECT moisture, ts FROM soil_current WHERE id=?
	`

	selectDaySQL = `
		SELECT doc FROM soil_history WHERE date=?
	`

	upsertDaySQL = `
		INSERT INTO soil_history (date, doc)
		VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET doc=excluded.doc
	`

	selectYearsSQL = `
		SELECT DISTINCT substr(date, 1, 4) FROM soil_history ORDER BY 1 DESC
	`
)

// SaveCurrent overwrites the single current-snapshot row (id always 1).
func (r *SoilSQLite) SaveCurrent(ctx context.Context, reading models.MoistureReading) error {
	_, err := r.db.ExecContext(ctx, upsertCurrentSQL, currentRowID, reading.Moisture, reading.Timestamp)
	return err
}

// LoadCurrent fetches the current snapshot. No row yet means no data, not an error.
func (r *SoilSQLite) LoadCurrent(ctx context.Context) (models.MoistureReading, error) {
	row := r.db.QueryRowContext(ctx, selectCurrentSQL, currentRowID)

	var reading models.MoistureReading
	if err := row.Scan(&reading.Moisture, &reading.Timestamp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MoistureReading{}, nil
		}
		return models.MoistureReading{}, err
	}
	return reading, nil
}

// AppendReading merges a reading into the per-date document under the given
// slot key (hour of day). Read-merge-write inside a transaction so concurrent
// appends to the same date cannot drop each other's slots.
func (r *SoilSQLite) AppendReading(ctx context.Context, date, slot string, reading models.MoistureReading) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var docStr string
	err = tx.QueryRowContext(ctx, selectDaySQL, date).Scan(&docStr)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("load day %s: %w", date, err)
	}

	day := map[string]json.RawMessage{}
	if docStr != "" {
		// Legacy documents may hold a bare scalar or a single object; a failed
		// unmarshal here means the old value gets replaced by a keyed document.
		_ = json.Unmarshal([]byte(docStr), &day)
	}

	b, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}
	day[slot] = b

	doc, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("marshal day doc: %w", err)
	}

	if _, err := tx.ExecContext(ctx, upsertDaySQL, date, string(doc)); err != nil {
		return fmt.Errorf("upsert day %s: %w", date, err)
	}
	return tx.Commit()
}

// GetDay returns the raw per-date document, or nil when the date is absent.
func (r *SoilSQLite) GetDay(ctx context.Context, date string) (json.RawMessage, error) {
	var docStr string
	err := r.db.QueryRowContext(ctx, selectDaySQL, date).Scan(&docStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return json.RawMessage(docStr), nil
}

// Years lists the distinct years present in history, newest first.
func (r *SoilSQLite) Years(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, selectYearsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var ys string
		if err := rows.Scan(&ys); err != nil {
			return nil, err
		}
		y, err := strconv.Atoi(ys)
		if err != nil {
			continue // skip malformed date keys
		}
		years = append(years, y)
	}
	return years, rows.Err()
}
