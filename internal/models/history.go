package models

// DailyMoistureData aggregates all readings for one calendar date.
// Readings is never empty for a constructed record: a date with no usable
// readings yields no record at all. Invariant when constructed properly:
// MinMoisture <= AverageMoisture <= MaxMoisture.
type DailyMoistureData struct {
	Date            string            `json:"date"` // "YYYY-MM-DD" (or a label for composed records)
	AverageMoisture float64           `json:"averageMoisture"`
	MinMoisture     float64           `json:"minMoisture"`
	MaxMoisture     float64           `json:"maxMoisture"`
	Readings        []MoistureReading `json:"readings"` // ascending by Timestamp
	Status          *MoistureStatus   `json:"status,omitempty"`
}

// WeeklyMoistureData is a weekly re-aggregation of daily records.
// Date carries a human label ("Minggu N (d1-d2 Month)"). Never persisted.
type WeeklyMoistureData struct {
	DailyMoistureData
	WeekNumber int `json:"weekNumber"`
}

// FetchError records a single date's failed fetch; it does not abort the
// rest of the aggregation.
type FetchError struct {
	Date  string `json:"date"`
	Error string `json:"error"`
}

// CacheEntry is one cached aggregation result. Owned exclusively by the
// history cache and replaced wholesale, never patched.
type CacheEntry struct {
	Data      []DailyMoistureData `json:"data"`
	Timestamp int64               `json:"timestamp"` // epoch millis of insertion
	Month     int                 `json:"month"`     // 1–12
	Year      int                 `json:"year"`
}
