package partials

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// J2000JD is the Julian date of the J2000 epoch.
	J2000JD       = 2451545.0
	secondsPerDay = 86400.0
)

// NaT is the not-a-time sentinel. It is never equal to any time, itself included,
// so passing it to a reset hook always invalidates the cache.
var NaT = math.NaN()

// IsNaT returns whether t is the not-a-time sentinel.
func IsNaT(t float64) bool {
	return math.IsNaN(t)
}

// SameEpoch returns whether both times are the same epoch. NaT never matches.
func SameEpoch(a, b float64) bool {
	return !IsNaT(a) && !IsNaT(b) && a == b
}

// J2000Seconds returns the number of seconds past J2000 of the provided time.
func J2000Seconds(dt time.Time) float64 {
	return (julian.TimeToJD(dt.UTC()) - J2000JD) * secondsPerDay
}

// TimeFromJ2000Seconds is the inverse of J2000Seconds.
func TimeFromJ2000Seconds(t float64) time.Time {
	return julian.JDToTime(J2000JD + t/secondsPerDay).UTC()
}
