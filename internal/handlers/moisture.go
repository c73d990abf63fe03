package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"soil_monitor"
	"soil_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errGetCurrent    = "failed to load current reading"
	errGetHistory    = "failed to load history"
	errGetYears      = "failed to load years"
	errInvalidMonthQ = "invalid 'month': must be 1-12"
	errInvalidYearQ  = "invalid 'year': must be a 4-digit year"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Ingest a sensor reading
// @Description  dataType "current" writes only the snapshot; anything else also appends to history
// @Tags         ingest
// @Accept       json
// @Produce      json
// @Param        body  body   soil_monitor.IngestRequest  true  "Reading payload"
// @Success      200   {object}  soil_monitor.IngestResponse
// @Failure      400   {object}  soil_monitor.IngestResponse
// @Failure      401   {object}  soil_monitor.IngestResponse
// @Failure      500   {object}  soil_monitor.IngestResponse
// @Router       /api/ingest [post]
func (h *Handler) ingestReading(c *gin.Context) {
	var req soil_monitor.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, soil_monitor.IngestResponse{
			Success: false,
			Error:   "invalid payload: " + err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	reading, err := h.services.Ingest.Record(ctx, service.RecordParams{
		Moisture: *req.Moisture,
		Status:   req.Status,
		DataType: req.DataType,
	})
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ingest_failed", "err", err, "moisture", *req.Moisture)
		}
		// Validation failures are the sensor's fault; everything else is ours.
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrMoistureRange) {
			status = http.StatusBadRequest
		}
		c.JSON(status, soil_monitor.IngestResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, soil_monitor.IngestResponse{
		Success: true,
		Message: "Data saved",
		Reading: &reading,
	})
}

// @Summary      Current moisture reading
// @Tags         moisture
// @Produce      json
// @Success      200  {object}  models.CurrentMoisture
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/moisture/current [get]
func (h *Handler) getCurrent(c *gin.Context) {
	ctx := c.Request.Context()
	current, err := h.services.Monitoring.Current(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetCurrent, "get_current_failed", err)
		return
	}
	c.JSON(http.StatusOK, current)
}

// @Summary      Aggregated moisture history
// @Description  period=day lists daily records, week lists 7-day buckets, month a single summary
// @Tags         moisture
// @Produce      json
// @Param        period  query  string  false  "day | week | month"  default(day)
// @Param        month   query  int     false  "1-12; defaults to current month"
// @Param        year    query  int     false  "4-digit year; defaults to current year"
// @Success      200  {object}  map[string]interface{}  "period, cache_hit, count, daily_data/weekly_data, errors"
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/moisture/history [get]
func (h *Handler) getHistory(c *gin.Context) {
	month, ok := h.intQuery(c, "month", errInvalidMonthQ)
	if !ok {
		return
	}
	year, ok := h.intQuery(c, "year", errInvalidYearQ)
	if !ok {
		return
	}

	q := service.HistoryQuery{
		Period: service.FilterPeriod(c.DefaultQuery("period", string(service.PeriodDay))),
		Month:  month,
		Year:   year,
	}

	ctx := c.Request.Context()
	result, err := h.services.History.Fetch(ctx, q)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPeriod) || errors.Is(err, service.ErrInvalidMonth) || errors.Is(err, service.ErrInvalidYear) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrSuperseded) {
			c.JSON(http.StatusConflict, gin.H{"error": "superseded by a newer request"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetHistory, "get_history_failed", err, "period", q.Period)
		return
	}

	resp := gin.H{
		"period":    q.Period,
		"cache_hit": result.CacheHit,
		"errors":    result.Errors,
	}
	if q.Period == service.PeriodWeek {
		resp["count"] = len(result.WeeklyData)
		resp["weekly_data"] = result.WeeklyData
	} else {
		resp["count"] = len(result.DailyData)
		resp["daily_data"] = result.DailyData
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Years present in history
// @Tags         moisture
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "years"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/moisture/years [get]
func (h *Handler) getYears(c *gin.Context) {
	ctx := c.Request.Context()
	years, err := h.services.History.Years(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetYears, "get_years_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"years": years})
}

// intQuery parses an optional integer query param; 0 means unset.
func (h *Handler) intQuery(c *gin.Context, name, userMsg string) (int, bool) {
	qs := c.Query(name)
	if qs == "" {
		return 0, true
	}
	v, err := strconv.Atoi(qs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": userMsg})
		return 0, false
	}
	return v, true
}
