package solar

import (
	"math"

	"github.com/soniakeys/unit"
)

// DefaultAlbedo is the ground reflectance used for vertical surfaces
const DefaultAlbedo = 0.2

// Facade is the sun geometry and irradiance on a vertical surface for one instant
type Facade struct {
	// Beam and Total are in W/m² on the surface
	Beam  float64
	Total float64
	// Incidence is the angle between the beam and the surface normal, in degrees
	Incidence float64
	// Altitude is the solar altitude in degrees, zero at night
	Altitude float64
	// RelAzimuth is the sun azimuth minus the surface azimuth in (-180, 180]
	RelAzimuth float64
}

// RelativeAzimuth returns the sun azimuth relative to a surface facing
// surfaceAz (degrees clockwise from north), normalised to (-180, 180]
func RelativeAzimuth(pos Position, surfaceAz float64) float64 {
	g := unit.PMod(pos.Azimuth.Deg()-surfaceAz, 360)
	if g > 180 {
		g -= 360
	}
	return g
}

// Incidence returns the incidence angle on a vertical surface in degrees
func Incidence(pos Position, surfaceAz float64) float64 {
	gamma := unit.AngleFromDeg(RelativeAzimuth(pos, surfaceAz))
	cos := pos.Altitude.Cos() * gamma.Cos()
	return math.Acos(math.Max(-1, math.Min(1, cos))) * 180 / math.Pi
}

// OnVertical projects irradiance onto a vertical surface facing surfaceAz. The
// sky is treated as isotropic and the ground reflects albedo of GHI.
func OnVertical(pos Position, irr Irradiance, surfaceAz, albedo float64) Facade {
	f := Facade{
		Incidence:  Incidence(pos, surfaceAz),
		RelAzimuth: RelativeAzimuth(pos, surfaceAz),
	}
	if !pos.Up() {
		f.Incidence = 90
		return f
	}

	f.Altitude = pos.Altitude.Deg()
	if cos := math.Cos(f.Incidence * math.Pi / 180); cos > 0 {
		f.Beam = irr.DNI * cos
	}
	f.Total = f.Beam + 0.5*irr.DHI + 0.5*albedo*irr.GHI
	return f
}
