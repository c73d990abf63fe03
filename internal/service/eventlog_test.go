package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEventLogService_ListRejectsInvertedRange(t *testing.T) {
	t.Parallel()

	svc := NewEventLogService(&recordingEventRepo{})
	_, err := svc.List(context.Background(), LogFilter{
		From: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, errInvalidTimeRange) {
		t.Errorf("error = %v, want errInvalidTimeRange", err)
	}
}

func TestNormalizeAndValidateFilter(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+7", 7*3600)
	from, to, typ, err := normalizeAndValidateFilter(LogFilter{
		From: time.Date(2024, 6, 1, 7, 0, 0, 0, loc),
		To:   time.Date(2024, 6, 2, 7, 0, 0, 0, loc),
		Type: " ingest ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from.Location() != time.UTC || from.Hour() != 0 {
		t.Errorf("from not normalized to UTC: %v", from)
	}
	if to.Location() != time.UTC {
		t.Errorf("to not normalized to UTC: %v", to)
	}
	if typ != "INGEST" {
		t.Errorf("type = %q, want INGEST", typ)
	}
}

func TestNormalizeAndValidateFilter_ZeroTimesPass(t *testing.T) {
	t.Parallel()

	from, to, typ, err := normalizeAndValidateFilter(LogFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !from.IsZero() || !to.IsZero() || typ != "" {
		t.Errorf("empty filter changed: from=%v to=%v type=%q", from, to, typ)
	}
}
