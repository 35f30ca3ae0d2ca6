package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// parseWindow reads startDate/endDate (RFC3339 or YYYY-MM-DD). A date-only
// endDate covers that whole day. Without either bound the window is the
// last `days` days up to now.
func parseWindow(q url.Values, now time.Time, defaultDays int) (*time.Time, *time.Time, error) {
	rawStart := strings.TrimSpace(q.Get("startDate"))
	rawEnd := strings.TrimSpace(q.Get("endDate"))

	if rawStart == "" && rawEnd == "" {
		days := defaultDays
		if raw := strings.TrimSpace(q.Get("days")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return nil, nil, validationError("days must be a positive integer")
			}
			days = n
		}
		end := now.UTC()
		start := end.AddDate(0, 0, -days)
		return &start, &end, nil
	}

	var start, end *time.Time
	if rawStart != "" {
		t, _, err := parseBound(rawStart)
		if err != nil {
			return nil, nil, validationError(fmt.Sprintf("invalid startDate %q", rawStart))
		}
		start = &t
	}
	if rawEnd != "" {
		t, dateOnly, err := parseBound(rawEnd)
		if err != nil {
			return nil, nil, validationError(fmt.Sprintf("invalid endDate %q", rawEnd))
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		}
		end = &t
	}
	if start != nil && end != nil && !start.Before(*end) {
		return nil, nil, validationError("startDate must be before endDate")
	}
	return start, end, nil
}

func parseBound(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

func parseLimit(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, validationError("limit must be a positive integer")
	}
	return n, nil
}
