package analytics

import (
	"fmt"
	"sort"

	"github.com/xaenox/chatlog-analytics/internal/models"
)

const peakHoursReported = 3

// trends buckets events by UTC hour of day and by UTC date. Events with an
// unparseable timestamp are left out.
func (e *Engine) trends(events []models.Event) models.Trends {
	var hourly [24]int
	daily := make(map[string]int)

	for _, ev := range events {
		if !ev.CreatedAt.Valid() {
			continue
		}
		hourly[ev.CreatedAt.UTC().Hour()]++
		daily[ev.CreatedAt.Date()]++
	}

	return models.Trends{
		HourlyDistribution: hourly,
		PeakHour:           peakHour(hourly),
		PeakHours:          peakHours(hourly, peakHoursReported),
		DailyDistribution:  daily,
	}
}

// peakHour returns the first hour with the highest count, or nil when
// every bucket is empty.
func peakHour(hourly [24]int) *int {
	best := -1
	for h, n := range hourly {
		if n > 0 && (best < 0 || n > hourly[best]) {
			best = h
		}
	}
	if best < 0 {
		return nil
	}
	return &best
}

func peakHours(hourly [24]int, n int) []string {
	hours := make([]int, 24)
	for h := range hours {
		hours[h] = h
	}
	sort.SliceStable(hours, func(i, j int) bool {
		return hourly[hours[i]] > hourly[hours[j]]
	})

	labels := []string{}
	for _, h := range hours[:n] {
		if hourly[h] > 0 {
			labels = append(labels, hourLabel(h))
		}
	}
	return labels
}

func hourLabel(h int) string {
	return fmt.Sprintf("%02d:00", h)
}
