package models

import "time"

// Status is the pass/fail verdict recorded for a video.
type Status int

const (
	StatusUnknown Status = iota
	StatusPassed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "Lolos"
	case StatusFailed:
		return "Tidak"
	default:
		return "unknown"
	}
}

// ParseStatus maps the sheet's status label onto a Status. Matching is exact,
// anything else is StatusUnknown.
func ParseStatus(s string) Status {
	switch s {
	case "Lolos":
		return StatusPassed
	case "Tidak":
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// Month is a calendar month as written in the sheet's Indonesian dates.
type Month int

// MonthUnknown is returned for any token outside the twelve abbreviations.
const MonthUnknown Month = 0

var monthTokens = map[string]time.Month{
	"Jan": time.January,
	"Feb": time.February,
	"Mar": time.March,
	"Apr": time.April,
	"Mei": time.May,
	"Jun": time.June,
	"Jul": time.July,
	"Agu": time.August,
	"Sep": time.September,
	"Okt": time.October,
	"Nov": time.November,
	"Des": time.December,
}

// ParseMonth resolves a case-sensitive month abbreviation.
func ParseMonth(token string) Month {
	if m, ok := monthTokens[token]; ok {
		return Month(m)
	}
	return MonthUnknown
}

// Time returns the matching time.Month. Only meaningful when m != MonthUnknown.
func (m Month) Time() time.Month { return time.Month(m) }
