package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"soil_monitor"
	"soil_monitor/internal/models"
)

type recordingSoilRepo struct {
	current     *models.MoistureReading
	appendDate  string
	appendSlot  string
	appendCalls int
	saveErr     error
	appendErr   error
}

func (r *recordingSoilRepo) SaveCurrent(ctx context.Context, reading models.MoistureReading) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.current = &reading
	return nil
}

func (r *recordingSoilRepo) LoadCurrent(ctx context.Context) (models.MoistureReading, error) {
	if r.current == nil {
		return models.MoistureReading{}, nil
	}
	return *r.current, nil
}

func (r *recordingSoilRepo) AppendReading(ctx context.Context, date, slot string, reading models.MoistureReading) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.appendCalls++
	r.appendDate = date
	r.appendSlot = slot
	return nil
}

func (r *recordingSoilRepo) GetDay(ctx context.Context, date string) (json.RawMessage, error) {
	return nil, nil
}

func (r *recordingSoilRepo) Years(ctx context.Context) ([]int, error) { return nil, nil }

type recordingEventRepo struct {
	events    []models.SensorEvent
	appendErr error
}

func (r *recordingEventRepo) Append(ctx context.Context, ev models.SensorEvent) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.SensorEvent, error) {
	return r.events, nil
}

func fixedIngestService(soil *recordingSoilRepo, events *recordingEventRepo, at time.Time) *IngestService {
	svc := NewIngestService(soil, events)
	svc.now = func() time.Time { return at }
	return svc
}

func TestIngestService_RecordPersistsCurrentAndHistory(t *testing.T) {
	t.Parallel()

	soil := &recordingSoilRepo{}
	events := &recordingEventRepo{}
	at := time.Date(2024, 6, 15, 13, 37, 0, 0, time.UTC)
	svc := fixedIngestService(soil, events, at)

	reading, err := svc.Record(context.Background(), RecordParams{Moisture: 42.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reading.Moisture != 42.5 || reading.Timestamp != at.UnixMilli() {
		t.Errorf("unexpected reading: %+v", reading)
	}
	if soil.current == nil || soil.current.Moisture != 42.5 {
		t.Error("current snapshot was not saved")
	}
	if soil.appendDate != "2024-06-15" || soil.appendSlot != "13" {
		t.Errorf("history entry at %s/%s, want 2024-06-15/13", soil.appendDate, soil.appendSlot)
	}
	if len(events.events) != 1 {
		t.Fatalf("got %d audit events, want 1", len(events.events))
	}
	if events.events[0].Type != EventIngest {
		t.Errorf("event type = %q, want %q", events.events[0].Type, EventIngest)
	}
	meta, ok := events.events[0].Metadata.(map[string]any)
	if !ok {
		t.Fatalf("metadata is %T, want map", events.events[0].Metadata)
	}
	if meta["source"] != SourceSensor {
		t.Errorf("source = %v, want default %q", meta["source"], SourceSensor)
	}
}

func TestIngestService_CurrentOnlySkipsHistory(t *testing.T) {
	t.Parallel()

	soil := &recordingSoilRepo{}
	svc := fixedIngestService(soil, &recordingEventRepo{}, time.Date(2024, 6, 15, 13, 0, 0, 0, time.UTC))

	if _, err := svc.Record(context.Background(), RecordParams{Moisture: 50, DataType: soil_monitor.DataTypeCurrent}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if soil.current == nil {
		t.Error("current snapshot was not saved")
	}
	if soil.appendCalls != 0 {
		t.Errorf("history written %d times for a current-only ingest", soil.appendCalls)
	}
}

func TestIngestService_RejectsOutOfRangeMoisture(t *testing.T) {
	t.Parallel()

	soil := &recordingSoilRepo{}
	svc := NewIngestService(soil, &recordingEventRepo{})

	for _, moisture := range []float64{-0.1, 100.1, -50, 250} {
		if _, err := svc.Record(context.Background(), RecordParams{Moisture: moisture}); !errors.Is(err, ErrMoistureRange) {
			t.Errorf("Record(%v) error = %v, want ErrMoistureRange", moisture, err)
		}
	}
	if soil.current != nil || soil.appendCalls != 0 {
		t.Error("rejected reading must not touch the store")
	}
}

func TestIngestService_BoundaryValuesAccepted(t *testing.T) {
	t.Parallel()

	svc := fixedIngestService(&recordingSoilRepo{}, &recordingEventRepo{}, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	for _, moisture := range []float64{0, 100} {
		if _, err := svc.Record(context.Background(), RecordParams{Moisture: moisture}); err != nil {
			t.Errorf("Record(%v) error = %v, want nil", moisture, err)
		}
	}
}

func TestIngestService_SimulatorSourceTagsEvent(t *testing.T) {
	t.Parallel()

	events := &recordingEventRepo{}
	svc := fixedIngestService(&recordingSoilRepo{}, events, time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC))

	if _, err := svc.Record(context.Background(), RecordParams{Moisture: 55, Source: SourceSimulator}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if events.events[0].Type != EventSimulated {
		t.Errorf("event type = %q, want %q", events.events[0].Type, EventSimulated)
	}
}

func TestIngestService_EventFailureDoesNotFailIngest(t *testing.T) {
	t.Parallel()

	svc := fixedIngestService(&recordingSoilRepo{}, &recordingEventRepo{appendErr: errors.New("log full")}, time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC))

	if _, err := svc.Record(context.Background(), RecordParams{Moisture: 55}); err != nil {
		t.Errorf("audit append failure surfaced as ingest error: %v", err)
	}
}

func TestIngestService_StoreFailureSurfaces(t *testing.T) {
	t.Parallel()

	svc := fixedIngestService(&recordingSoilRepo{saveErr: errors.New("db locked")}, &recordingEventRepo{}, time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC))
	if _, err := svc.Record(context.Background(), RecordParams{Moisture: 55}); err == nil {
		t.Error("expected SaveCurrent failure to surface")
	}

	svc = fixedIngestService(&recordingSoilRepo{appendErr: errors.New("db locked")}, &recordingEventRepo{}, time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC))
	if _, err := svc.Record(context.Background(), RecordParams{Moisture: 55}); err == nil {
		t.Error("expected AppendReading failure to surface")
	}
}
