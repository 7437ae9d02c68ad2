package services

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"creator-dashboard/models"
)

// ParseRowDate reads a DD-MMM-YYYY sheet date such as "15-Jan-2024" or
// "3-Agu-2023". The result sits at 12:00 UTC so day comparisons are not
// shifted by zone offsets. Day overflow follows time.Date normalisation.
func ParseRowDate(field sql.NullString) (time.Time, bool) {
	if !field.Valid || field.String == "" {
		return time.Time{}, false
	}

	parts := strings.Split(field.String, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return time.Time{}, false
	}
	month := models.ParseMonth(parts[1])
	if month == models.MonthUnknown {
		return time.Time{}, false
	}

	return time.Date(year, month.Time(), day, 12, 0, 0, 0, time.UTC), true
}

// ParseCurrency keeps only the digits of a payment cell: "Rp 1.000" → 1000.
// Currency is integer-only; anything unparseable counts as zero.
func ParseCurrency(field sql.NullString) int64 {
	if !field.Valid {
		return 0
	}
	var b strings.Builder
	for _, r := range field.String {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseViewCount drops thousands commas and reads the leading digits:
// "12,345" → 12345, "1200 views" → 1200, "n/a" → 0.
func ParseViewCount(field sql.NullString) int64 {
	if !field.Valid {
		return 0
	}
	s := strings.TrimLeft(strings.ReplaceAll(field.String, ",", ""), " \t\n\r")

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseStatus resolves the pass/fail column. Absent cells are unknown.
func ParseStatus(field sql.NullString) models.Status {
	if !field.Valid {
		return models.StatusUnknown
	}
	return models.ParseStatus(field.String)
}
