package services

import (
	"math"
	"strconv"
	"strings"
)

// FormatRupiah renders an integer amount the way id-ID formats IDR:
// 1500000 → "Rp 1.500.000".
func FormatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return sign + "Rp " + b.String()
}

var compactUnits = []struct {
	scale  float64
	suffix string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatCompact abbreviates a count for display: 950 → "950", 1234 → "1.2K",
// 15300 → "15K", 2500000 → "2.5M".
func FormatCompact(n int64) string {
	if n < 0 {
		return "-" + FormatCompact(-n)
	}
	v := float64(n)
	for i, u := range compactUnits {
		if v < u.scale {
			continue
		}
		scaled := compactRound(v / u.scale)
		if scaled >= 1000 && i > 0 {
			return compactString(compactRound(v/compactUnits[i-1].scale)) + compactUnits[i-1].suffix
		}
		return compactString(scaled) + u.suffix
	}
	return strconv.FormatInt(n, 10)
}

// compactRound keeps two significant digits below 100 and whole numbers above.
func compactRound(v float64) float64 {
	if v < 100 {
		mag := math.Pow(10, 1-math.Floor(math.Log10(v)))
		return math.Round(v*mag) / mag
	}
	return math.Round(v)
}

func compactString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
