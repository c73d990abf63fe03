package handlers

import (
	"context"
	"time"

	"soil_monitor/internal/models"
	"soil_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockIngest struct {
	reading    models.MoistureReading
	err        error
	calls      int
	lastParams service.RecordParams
}

func (m *mockIngest) Record(ctx context.Context, p service.RecordParams) (models.MoistureReading, error) {
	m.calls++
	m.lastParams = p
	return m.reading, m.err
}

type mockMonitoring struct {
	current models.CurrentMoisture
	err     error
}

func (m *mockMonitoring) Current(ctx context.Context) (models.CurrentMoisture, error) {
	return m.current, m.err
}

type mockHistory struct {
	result    service.HistoryResult
	fetchErr  error
	years     []int
	yearsErr  error
	lastQuery service.HistoryQuery
	calls     int
}

func (m *mockHistory) Fetch(ctx context.Context, q service.HistoryQuery) (service.HistoryResult, error) {
	m.calls++
	m.lastQuery = q
	return m.result, m.fetchErr
}

func (m *mockHistory) Years(ctx context.Context) ([]int, error) {
	return m.years, m.yearsErr
}

type mockEventLog struct {
	resp     []models.SensorEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.SensorEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, deviceKey string) *gin.Engine {
	h := NewHandler(s, nil, deviceKey)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
