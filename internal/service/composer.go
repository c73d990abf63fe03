package service

import (
	"fmt"
	"sort"
	"strconv"

	"soil_monitor/internal/models"
)

// monthNames are the Indonesian month labels used in composed records.
var monthNames = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

func monthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

const daysPerWeek = 7

// composeWeekly partitions the (already month/year-filtered) daily records
// into sequential 7-day chunks in date order; the last chunk may be shorter.
// Week stats are computed over the union of the chunk's raw readings, not an
// average of daily averages. Empty input yields an empty result.
func composeWeekly(days []models.DailyMoistureData, month, year int) []models.WeeklyMoistureData {
	if len(days) == 0 {
		return nil
	}

	sorted := make([]models.DailyMoistureData, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	var weekly []models.WeeklyMoistureData
	for start := 0; start < len(sorted); start += daysPerWeek {
		end := start + daysPerWeek
		if end > len(sorted) {
			end = len(sorted)
		}
		chunk := sorted[start:end]
		weekNumber := start/daysPerWeek + 1

		summary := summarizeReadings(unionReadings(chunk))
		if summary == nil {
			continue
		}
		summary.Date = fmt.Sprintf("Minggu %d (%d-%d %s)",
			weekNumber, dayOfMonth(chunk[0].Date), dayOfMonth(chunk[len(chunk)-1].Date), monthName(month))

		weekly = append(weekly, models.WeeklyMoistureData{
			DailyMoistureData: *summary,
			WeekNumber:        weekNumber,
		})
	}
	return weekly
}

// composeMonthly collapses the filtered daily records into a single summary
// over the union of all readings, labeled "<MonthName> <Year>".
func composeMonthly(days []models.DailyMoistureData, month, year int) []models.DailyMoistureData {
	if len(days) == 0 {
		return nil
	}
	summary := summarizeReadings(unionReadings(days))
	if summary == nil {
		return nil
	}
	summary.Date = fmt.Sprintf("%s %d", monthName(month), year)
	return []models.DailyMoistureData{*summary}
}

func unionReadings(days []models.DailyMoistureData) []models.MoistureReading {
	var all []models.MoistureReading
	for _, day := range days {
		all = append(all, day.Readings...)
	}
	return all
}

// summarizeReadings builds a record over a set of raw readings; the Date
// label is the caller's to fill in. Nil for an empty set.
func summarizeReadings(readings []models.MoistureReading) *models.DailyMoistureData {
	return aggregateDay(readings, "")
}

func dayOfMonth(date string) int {
	if len(date) < 10 {
		return 0
	}
	d, _ := strconv.Atoi(date[8:10])
	return d
}
