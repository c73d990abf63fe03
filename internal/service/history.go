package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"soil_monitor/internal/models"
	"soil_monitor/internal/repository"
)

// ErrSuperseded is returned when a resolution was overtaken by a newer one;
// its partial results are discarded, never cached nor surfaced.
var ErrSuperseded = errors.New("history resolution superseded")

// HistoryService resolves a period/month/year selection into aggregated
// history. One logical request stream: starting a new Fetch cancels the
// previous in-flight one, and a superseded resolution never writes the cache
// nor surfaces data.
type HistoryService struct {
	repo  repository.SoilRepo
	cache *historyCache
	now   func() time.Time

	mu         sync.Mutex
	generation uint64
	cancelPrev context.CancelFunc
}

// HistoryOption customizes a HistoryService; used by tests to inject a clock
// or shrink the cache window.
type HistoryOption func(*historyOptions)

type historyOptions struct {
	ttl time.Duration
	now func() time.Time
}

func WithClock(now func() time.Time) HistoryOption {
	return func(o *historyOptions) { o.now = now }
}

func WithCacheTTL(ttl time.Duration) HistoryOption {
	return func(o *historyOptions) { o.ttl = ttl }
}

func NewHistoryService(repo repository.SoilRepo, opts ...HistoryOption) *HistoryService {
	o := historyOptions{ttl: defaultCacheTTL, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &HistoryService{
		repo:  repo,
		cache: newHistoryCache(o.ttl, o.now),
		now:   o.now,
	}
}

// Fetch runs one resolution: resolve dates → cache check → parallel per-date
// fetch → aggregate → compose → cache put. Per-date failures are recorded as
// FetchErrors and the date is dropped; only cancellation or an invalid query
// fails the whole call.
func (s *HistoryService) Fetch(ctx context.Context, q HistoryQuery) (HistoryResult, error) {
	period, month, year, err := normalizePeriodQuery(q, s.now())
	if err != nil {
		return HistoryResult{}, err
	}
	dates, cacheKey := resolvePeriod(period, month, year)

	gen, fetchCtx, cancel := s.begin(ctx)
	defer cancel()

	if cached, ok := s.cache.get(cacheKey); ok {
		return s.compose(period, cached, month, year, nil, true), nil
	}

	days, fetchErrs := s.fetchDays(fetchCtx, dates)

	// A superseded or cancelled resolution must not commit anything.
	if fetchCtx.Err() != nil || !s.isCurrent(gen) {
		return HistoryResult{}, ErrSuperseded
	}

	s.cache.put(cacheKey, days, month, year)
	return s.compose(period, days, month, year, fetchErrs, false), nil
}

// Years lists the years available in the store, for the year selector.
func (s *HistoryService) Years(ctx context.Context) ([]int, error) {
	return s.repo.Years(ctx)
}

// begin registers a new resolution generation, cancelling the previous one.
func (s *HistoryService) begin(ctx context.Context) (uint64, context.Context, context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelPrev != nil {
		s.cancelPrev()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancelPrev = cancel
	s.generation++
	return s.generation, fetchCtx, cancel
}

func (s *HistoryService) isCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation == gen
}

// fetchDays fans out one goroutine per date and joins before aggregation.
// A failure on one date is recorded locally and must not abort the others.
func (s *HistoryService) fetchDays(ctx context.Context, dates []string) ([]models.DailyMoistureData, []models.FetchError) {
	type slot struct {
		day      *models.DailyMoistureData
		fetchErr *models.FetchError
	}
	slots := make([]slot, len(dates))

	var wg sync.WaitGroup
	for i, date := range dates {
		wg.Add(1)
		go func(i int, date string) {
			defer wg.Done()
			raw, err := s.repo.GetDay(ctx, date)
			if err != nil {
				if ctx.Err() != nil {
					return // cancelled, not an error
				}
				slots[i].fetchErr = &models.FetchError{Date: date, Error: err.Error()}
				return
			}
			if day := aggregateDay(decodeDayReadings(raw, date), date); day != nil {
				slots[i].day = day
			}
		}(i, date)
	}
	wg.Wait()

	var (
		days []models.DailyMoistureData
		errs []models.FetchError
	)
	for _, sl := range slots { // date order is preserved by slot index
		if sl.day != nil {
			days = append(days, *sl.day)
		}
		if sl.fetchErr != nil {
			errs = append(errs, *sl.fetchErr)
		}
	}
	return days, errs
}

func (s *HistoryService) compose(period FilterPeriod, days []models.DailyMoistureData, month, year int, errs []models.FetchError, cacheHit bool) HistoryResult {
	result := HistoryResult{Errors: errs, CacheHit: cacheHit}
	switch period {
	case PeriodWeek:
		result.WeeklyData = composeWeekly(days, month, year)
	case PeriodMonth:
		result.DailyData = composeMonthly(days, month, year)
	default:
		result.DailyData = days
	}
	return result
}
