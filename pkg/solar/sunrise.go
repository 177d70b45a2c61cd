package solar

import (
	"math"
	"time"

	"github.com/soniakeys/unit"
)

// horizonAltitude accounts for refraction and the solar semi-diameter
var horizonAltitude = unit.AngleFromDeg(-0.833)

// SunriseSunset returns sunrise and sunset in UTC on the given day. ok is false
// during polar day or polar night.
func SunriseSunset(day time.Time, site Site) (rise, set time.Time, ok bool) {
	noon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC)
	pos := SunPosition(noon, site)

	// the sun moves 15° of hour angle per hour
	transit := noon.Add(-hours(pos.HourAngle.Deg() / 15))

	lat := unit.AngleFromDeg(site.Latitude)
	cosH0 := (horizonAltitude.Sin() - lat.Sin()*pos.Declination.Sin()) / (lat.Cos() * pos.Declination.Cos())
	if cosH0 < -1 || cosH0 > 1 {
		return time.Time{}, time.Time{}, false
	}
	h0 := math.Acos(cosH0) * 180 / math.Pi / 15

	return transit.Add(-hours(h0)), transit.Add(hours(h0)), true
}

// FormatSunTime formats t in loc, empty for the zero time
func FormatSunTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("3:04 PM")
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
