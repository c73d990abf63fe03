package service

import (
	"context"
	"time"

	"soil_monitor/internal/models"
	"soil_monitor/internal/repository"
)

// Ingest records a new sensor reading (current snapshot and/or history entry).
type Ingest interface {
	Record(ctx context.Context, p RecordParams) (models.MoistureReading, error)
}

// Monitoring exposes the current reading with its derived status.
type Monitoring interface {
	Current(ctx context.Context) (models.CurrentMoisture, error)
}

// History resolves period/month/year selections into aggregated history views.
type History interface {
	Fetch(ctx context.Context, q HistoryQuery) (HistoryResult, error)
	Years(ctx context.Context) ([]int, error)
}

// EventLog exposes the ingestion audit trail with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.SensorEvent, error)
}

// Simulator generates plausible sample readings when no sensor is attached.
// Stop via context cancellation in main() for graceful shutdown.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Ingest
	Monitoring
	History
	EventLog
	Simulator
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository) *Service {
	ingest := NewIngestService(repos.Soil, repos.Events)
	return &Service{
		Ingest:     ingest,
		Monitoring: NewMonitoringService(repos.Soil),
		History:    NewHistoryService(repos.Soil),
		EventLog:   NewEventLogService(repos.Events),
		Simulator:  NewSimulatorService(ingest),
	}
}
