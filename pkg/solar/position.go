// Package solar computes sun positions, clear-sky irradiance and the
// irradiance reaching vertical facades.
package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	meeussolar "github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// Site is an observer location. Longitude is positive east, elevation in metres.
type Site struct {
	Latitude  float64
	Longitude float64
	Elevation float64
}

// Position is the apparent position of the sun seen from a site
type Position struct {
	// Altitude above the horizon, negative at night
	Altitude unit.Angle
	// Azimuth clockwise from north
	Azimuth     unit.Angle
	Declination unit.Angle
	// HourAngle is negative before solar noon
	HourAngle unit.Angle
}

// Zenith returns the zenith angle
func (p Position) Zenith() unit.Angle {
	return unit.AngleFromDeg(90) - p.Altitude
}

// Up reports whether the sun is above the horizon
func (p Position) Up() bool {
	return p.Altitude > 0
}

// SunPosition returns the position of the sun at t. Delta T is ignored; the
// error is well under a tenth of a degree.
func SunPosition(t time.Time, site Site) Position {
	jd := julian.TimeToJD(t.UTC())
	ra, dec := meeussolar.ApparentEquatorial(jd)

	lat := unit.AngleFromDeg(site.Latitude)
	gst := sidereal.Apparent(jd).Angle()
	ha := (gst + unit.AngleFromDeg(site.Longitude) - ra.Angle()).Mod1()
	if ha > math.Pi {
		ha -= 2 * math.Pi
	}

	sLat, cLat := lat.Sincos()
	sDec, cDec := dec.Sincos()
	sHA, cHA := ha.Sincos()

	alt := math.Asin(sLat*sDec + cLat*cDec*cHA)
	az := math.Atan2(-sHA*cDec, cLat*sDec-sLat*cDec*cHA)

	return Position{
		Altitude:    unit.Angle(alt),
		Azimuth:     unit.Angle(unit.PMod(az, 2*math.Pi)),
		Declination: dec,
		HourAngle:   ha,
	}
}
