package soil_monitor

import "soil_monitor/internal/models"

// IngestRequest is the payload a sensor posts, over HTTP or MQTT.
// Moisture is a pointer so a missing field is distinguishable from 0.
type IngestRequest struct {
	Moisture *float64 `json:"moisture" binding:"required"`
	Status   string   `json:"status,omitempty"`
	DataType string   `json:"dataType,omitempty"` // "current" | "daily" (default: both writes)
}

// IngestResponse is the success/failure envelope returned to the sensor.
type IngestResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	Error   string                  `json:"error,omitempty"`
	Reading *models.MoistureReading `json:"reading,omitempty"`
}

// DataTypeCurrent restricts an ingest to the current snapshot only;
// anything else also appends to the per-date history document.
const DataTypeCurrent = "current"
