package service

import (
	"context"
	"time"

	"soil_monitor/internal/models"
	"soil_monitor/internal/repository"
)

type MonitoringService struct {
	soilRepo repository.SoilRepo
}

func NewMonitoringService(soilRepo repository.SoilRepo) *MonitoringService {
	return &MonitoringService{soilRepo: soilRepo}
}

// Current returns the latest persisted reading with its derived status.
// Before the first ingest the snapshot is zero-valued and LastUpdate empty.
func (s *MonitoringService) Current(ctx context.Context) (models.CurrentMoisture, error) {
	reading, err := s.soilRepo.LoadCurrent(ctx)
	if err != nil {
		return models.CurrentMoisture{}, err
	}

	current := models.CurrentMoisture{
		Reading: reading,
		Status:  statusFor(reading.Moisture),
	}
	if reading.Timestamp > 0 {
		current.LastUpdate = time.UnixMilli(reading.Timestamp).UTC().Format("15:04")
	}
	return current, nil
}
