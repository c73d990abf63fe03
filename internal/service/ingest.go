package service

import (
	"context"
	"errors"
	"time"

	"soil_monitor"
	"soil_monitor/internal/models"
	"soil_monitor/internal/repository"
)

// ErrMoistureRange rejects readings outside the sensor's 0-100 scale.
var ErrMoistureRange = errors.New("invalid moisture: must be between 0 and 100")

const (
	EventIngest    = "INGEST"
	EventSimulated = "SIMULATED"

	SourceSensor    = "sensor"
	SourceMQTT      = "mqtt"
	SourceSimulator = "simulator"
)

type IngestService struct {
	soilRepo  repository.SoilRepo
	eventRepo repository.EventRepo
	now       func() time.Time
}

func NewIngestService(soilRepo repository.SoilRepo, eventRepo repository.EventRepo) *IngestService {
	return &IngestService{soilRepo: soilRepo, eventRepo: eventRepo, now: time.Now}
}

// Record validates and persists one reading: the current snapshot always,
// plus the history/<date>/<hour> entry unless DataType restricts to current.
// The audit event is best-effort; a failed append does not fail the ingest.
func (s *IngestService) Record(ctx context.Context, p RecordParams) (models.MoistureReading, error) {
	if p.Moisture < 0 || p.Moisture > 100 {
		return models.MoistureReading{}, ErrMoistureRange
	}

	now := s.now().UTC()
	reading := models.MoistureReading{
		Moisture:  p.Moisture,
		Timestamp: now.UnixMilli(),
	}

	if err := s.soilRepo.SaveCurrent(ctx, reading); err != nil {
		return models.MoistureReading{}, err
	}

	if p.DataType != soil_monitor.DataTypeCurrent {
		date := now.Format("2006-01-02")
		slot := now.Format("15")
		if err := s.soilRepo.AppendReading(ctx, date, slot, reading); err != nil {
			return models.MoistureReading{}, err
		}
	}

	_ = s.eventRepo.Append(ctx, models.SensorEvent{
		OccurredAt:  now,
		Type:        eventTypeFor(p.Source),
		Description: "Reading recorded",
		Metadata: map[string]any{
			"moisture": p.Moisture,
			"status":   p.Status,
			"source":   sourceOrDefault(p.Source),
		},
	})

	return reading, nil
}

func eventTypeFor(source string) string {
	if source == SourceSimulator {
		return EventSimulated
	}
	return EventIngest
}

func sourceOrDefault(source string) string {
	if source == "" {
		return SourceSensor
	}
	return source
}
