package scoring

import (
	"math"
	"time"
)

const msPerDay = 86_400_000

// Cap01 clamps v to [0,1]. NaN and infinities map to 0.
func Cap01(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// Clamp bounds v to [lo,hi].
func Clamp(v, lo, hi int) int {
	return min(hi, max(lo, v))
}

// SafeRatio returns num/den, or 0 when den is 0.
func SafeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// FromRatio maps a ratio onto an integer score in [0,100].
func FromRatio(r float64) int {
	return Clamp(Round(Cap01(r)*100), 0, 100)
}

// Round rounds half away from zero.
func Round(v float64) int {
	return int(math.Round(v))
}

// DaysSince returns whole days between t and now, floored. A nil time is
// infinitely old.
func DaysSince(t *time.Time, now time.Time) float64 {
	if t == nil {
		return math.Inf(1)
	}
	return math.Floor(float64(now.Sub(*t).Milliseconds()) / msPerDay)
}
