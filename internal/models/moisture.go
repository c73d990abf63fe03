package models

// MoistureReading is one sensor sample. Timestamp is epoch milliseconds.
// Immutable once recorded.
type MoistureReading struct {
	Moisture  float64 `json:"moisture"` // percent, 0–100 (sensor-bounded to ~0–70 in practice)
	Timestamp int64   `json:"timestamp"`
}

// MoistureStatus is a qualitative classification derived from an average reading.
type MoistureStatus struct {
	Status string `json:"status"` // Sangat Kering | Kering | Baik | Lembab
	Color  string `json:"color"`  // hex, e.g. "#22c55e"
}

// CurrentMoisture is the latest snapshot plus its derived status.
type CurrentMoisture struct {
	Reading    MoistureReading `json:"reading"`
	Status     MoistureStatus  `json:"status"`
	LastUpdate string          `json:"last_update,omitempty"` // "HH:MM", empty when no data yet
}
