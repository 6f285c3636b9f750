package locale

import (
	"fmt"
	"math"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// spreadsheet serial day 0
var serialEpoch = civil.Date{Year: 1899, Month: time.December, Day: 30}

// Layouts tried in order. Go's "1" and "2" accept one or two digits, and
// time.Parse rejects impossible calendar dates such as 31/02.
var dateLayouts = []string{
	"2006-1-2",
	"2/1/2006",
	"2-1-2006",
	"2/1/06",
	"2-1-06",
}

// ParseDate converts a cell value into a calendar date. It accepts dates,
// spreadsheet serial numbers and PT-PT formatted strings (day first).
// The boolean is false when no valid date could be read.
func ParseDate(v any) (civil.Date, bool) {
	switch d := v.(type) {
	case nil:
		return civil.Date{}, false
	case civil.Date:
		return d, d.IsValid()
	case time.Time:
		if d.IsZero() {
			return civil.Date{}, false
		}
		return civil.DateOf(d), true
	case float64:
		return fromSerial(d)
	case float32:
		return fromSerial(float64(d))
	case int:
		return fromSerial(float64(d))
	case int64:
		return fromSerial(float64(d))
	case string:
		return parseDateString(d)
	}
	return civil.Date{}, false
}

func fromSerial(serial float64) (civil.Date, bool) {
	// 0 is an empty numeric cell, not the epoch itself
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial <= 0 {
		return civil.Date{}, false
	}
	return serialEpoch.AddDays(int(math.Floor(serial))), true
}

func parseDateString(s string) (civil.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), true
		}
	}
	return civil.Date{}, false
}

// MonthOf formats a date's month as "YYYY-MM".
func MonthOf(d civil.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

// DominantMonth returns the most frequent "YYYY-MM" among dates. On a tie the
// month that reached the top count first wins. Empty input yields "".
func DominantMonth(dates []civil.Date) string {
	counts := make(map[string]int)
	var order []string
	for _, d := range dates {
		if !d.IsValid() {
			continue
		}
		key := MonthOf(d)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	best, bestCount := "", 0
	for _, key := range order {
		if counts[key] > bestCount {
			best, bestCount = key, counts[key]
		}
	}
	return best
}
