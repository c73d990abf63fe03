package service

import (
	"time"

	"soil_monitor/internal/models"
)

// RecordParams carries one reading into the ingest path.
type RecordParams struct {
	Moisture float64
	Status   string // sensor-reported label, informational only
	DataType string // "current" skips the history write; anything else writes both
	Source   string // "sensor" | "mqtt" | "simulator"; defaults to "sensor"
}

// FilterPeriod is the requested granularity of a history view.
type FilterPeriod string

const (
	PeriodDay   FilterPeriod = "day"
	PeriodWeek  FilterPeriod = "week"
	PeriodMonth FilterPeriod = "month"
)

// HistoryQuery selects one month of history and how to bucket it.
// Month/Year of 0 default to the current month/year.
type HistoryQuery struct {
	Period FilterPeriod
	Month  int // 1–12
	Year   int // 4-digit
}

// HistoryResult is what the presentation layer consumes. DailyData is
// populated for day/month periods (month yields a singleton summary),
// WeeklyData for the week period.
type HistoryResult struct {
	DailyData  []models.DailyMoistureData
	WeeklyData []models.WeeklyMoistureData
	Errors     []models.FetchError
	CacheHit   bool
}

// LogFilter supports audit-log filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "INGEST", "SIMULATED", "ERROR"
}
