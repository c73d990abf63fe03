package service

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"time"

	"soil_monitor/internal/models"
)

// round2 rounds to 2 decimal places, half-up. Moisture values are
// non-negative so the floor trick is safe.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// rawReading mirrors the object shape sensors write per slot.
type rawReading struct {
	Moisture  *float64 `json:"moisture"`
	Timestamp int64    `json:"timestamp"`
}

// dayStartMillis returns epoch millis for hour h of the given "YYYY-MM-DD"
// date, used as a fallback timestamp for raw values that carry none.
func dayStartMillis(date string, hour int) int64 {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0
	}
	return t.Add(time.Duration(hour) * time.Hour).UnixMilli()
}

// decodeDayReadings normalizes a raw per-date store document into readings.
// Three shapes are accepted: a bare scalar, a single {moisture, timestamp}
// object, and a keyed object of such (hour keys "00".."23" or the restricted
// 4-slot set). Unusable entries are skipped; the union shape never leaves
// this function.
func decodeDayReadings(raw json.RawMessage, date string) []models.MoistureReading {
	if len(raw) == 0 {
		return nil
	}

	// Shape 1: bare scalar.
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return []models.MoistureReading{{Moisture: num, Timestamp: dayStartMillis(date, 0)}}
	}

	// Shape 2: single reading object.
	var single rawReading
	if err := json.Unmarshal(raw, &single); err == nil && single.Moisture != nil {
		return []models.MoistureReading{normalizeRaw(single, date, 0)}
	}

	// Shape 3: hour- or slot-keyed object of readings.
	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil
	}
	readings := make([]models.MoistureReading, 0, len(keyed))
	for key, child := range keyed {
		hour := 0
		if h, err := strconv.Atoi(key); err == nil && h >= 0 && h <= 23 {
			hour = h
		}
		var childNum float64
		if err := json.Unmarshal(child, &childNum); err == nil {
			readings = append(readings, models.MoistureReading{Moisture: childNum, Timestamp: dayStartMillis(date, hour)})
			continue
		}
		var childObj rawReading
		if err := json.Unmarshal(child, &childObj); err == nil && childObj.Moisture != nil {
			readings = append(readings, normalizeRaw(childObj, date, hour))
		}
	}
	return readings
}

func normalizeRaw(r rawReading, date string, hour int) models.MoistureReading {
	ts := r.Timestamp
	if ts == 0 {
		ts = dayStartMillis(date, hour)
	}
	return models.MoistureReading{Moisture: *r.Moisture, Timestamp: ts}
}

// aggregateDay turns one date's readings into a daily record. Pure: no side
// effects, store failures are the caller's concern. Returns nil when there is
// nothing usable for the date, never a zero-filled record.
func aggregateDay(readings []models.MoistureReading, date string) *models.DailyMoistureData {
	if len(readings) == 0 {
		return nil
	}

	sorted := make([]models.MoistureReading, len(readings))
	copy(sorted, readings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	sum := 0.0
	minV := sorted[0].Moisture
	maxV := sorted[0].Moisture
	for _, r := range sorted {
		sum += r.Moisture
		if r.Moisture < minV {
			minV = r.Moisture
		}
		if r.Moisture > maxV {
			maxV = r.Moisture
		}
	}

	avg := round2(sum / float64(len(sorted)))
	status := statusFor(avg)
	return &models.DailyMoistureData{
		Date:            date,
		AverageMoisture: avg,
		MinMoisture:     round2(minV),
		MaxMoisture:     round2(maxV),
		Readings:        sorted,
		Status:          &status,
	}
}
