package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidPeriod = errors.New("invalid period: must be day, week, or month")
	ErrInvalidMonth  = errors.New("invalid month: must be 1-12")
	ErrInvalidYear   = errors.New("invalid year: must be a 4-digit year")
)

// normalizePeriodQuery validates a query and fills defaults from "now":
// a missing month/year selects the current calendar month. The whole current
// month (not just today) is requested so the day view shows a full history.
func normalizePeriodQuery(q HistoryQuery, now time.Time) (FilterPeriod, int, int, error) {
	period := q.Period
	if period == "" {
		period = PeriodDay
	}
	switch period {
	case PeriodDay, PeriodWeek, PeriodMonth:
	default:
		return "", 0, 0, ErrInvalidPeriod
	}

	month := q.Month
	year := q.Year
	if month == 0 {
		month = int(now.UTC().Month())
	}
	if year == 0 {
		year = now.UTC().Year()
	}
	if month < 1 || month > 12 {
		return "", 0, 0, ErrInvalidMonth
	}
	if year < 1000 || year > 9999 {
		return "", 0, 0, ErrInvalidYear
	}
	return period, month, year, nil
}

// resolvePeriod computes the exact calendar dates to request and the cache
// key for a validated (period, month, year) selection. All three periods
// request every date of the month; the period only changes how the daily
// list is composed afterwards.
func resolvePeriod(period FilterPeriod, month, year int) (dates []string, cacheKey string) {
	last := daysInMonth(month, year)
	dates = make([]string, 0, last)
	for day := 1; day <= last; day++ {
		dates = append(dates, fmt.Sprintf("%04d-%02d-%02d", year, month, day))
	}
	return dates, fmt.Sprintf("%s-%d-%d", period, year, month)
}

func daysInMonth(month, year int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
