package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"soil_monitor/internal/models"
)

// SoilRepo is the reading store: a "current" snapshot plus a history tree
// keyed by calendar date. GetDay returns the raw per-date document so the
// aggregation layer can normalize whatever shape a sensor wrote.
type SoilRepo interface {
	SaveCurrent(ctx context.Context, r models.MoistureReading) error
	LoadCurrent(ctx context.Context) (models.MoistureReading, error)
	AppendReading(ctx context.Context, date, slot string, r models.MoistureReading) error
	GetDay(ctx context.Context, date string) (json.RawMessage, error)
	Years(ctx context.Context) ([]int, error)
}

// EventRepo is the append-only ingestion audit log.
type EventRepo interface {
	Append(ctx context.Context, e models.SensorEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.SensorEvent, error)
}

type Repository struct {
	Soil   SoilRepo
	Events EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Soil:   NewSoilSQLite(db),
		Events: NewEventSQLite(db),
	}
}
