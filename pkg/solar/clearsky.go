package solar

import (
	"math"
	"time"
)

const (
	solarConstant = 1361.0 // W/m² at the top of the atmosphere
	// DefaultTurbidity is the Linke turbidity of a clean, dry sky
	DefaultTurbidity = 2.0
)

// Irradiance components in W/m²
type Irradiance struct {
	// DNI is the direct beam on a surface normal to the sun
	DNI float64
	// DHI is the diffuse irradiance on a horizontal surface
	DHI float64
	// GHI is the total irradiance on a horizontal surface
	GHI float64
}

// Scale multiplies every component by f
func (i Irradiance) Scale(f float64) Irradiance {
	return Irradiance{DNI: i.DNI * f, DHI: i.DHI * f, GHI: i.GHI * f}
}

// extraterrestrial is the normal irradiance at the top of the atmosphere,
// corrected for the Earth-Sun distance on the given day
func extraterrestrial(t time.Time) float64 {
	n := float64(t.YearDay())
	return solarConstant * (1 + 0.033*math.Cos(2*math.Pi*(n-3)/365))
}

// airMass uses the Kasten-Young formula
func airMass(zenithDeg float64) float64 {
	return 1.0 / (math.Cos(zenithDeg*math.Pi/180) + 0.50572*math.Pow(96.07995-zenithDeg, -1.6364))
}

// ClearSky returns the Ineichen-Perez clear-sky irradiance for a sun position.
// A turbidity of zero uses DefaultTurbidity.
func ClearSky(t time.Time, pos Position, elevation, turbidity float64) Irradiance {
	if !pos.Up() {
		return Irradiance{}
	}
	if turbidity <= 0 {
		turbidity = DefaultTurbidity
	}

	g0 := extraterrestrial(t)
	zenith := pos.Zenith().Deg()
	am := airMass(zenith)
	cosZ := math.Cos(pos.Zenith().Rad())

	const (
		c = 0.7   // beam normalisation
		a = 0.027 // extinction coefficient
	)
	dni := g0 * c * math.Exp(-a*am*turbidity*math.Exp(-elevation/8000.0))

	// diffuse fraction follows the season, peaking in summer
	fh := 0.1 + 0.05*math.Sin(math.Pi*float64(t.YearDay()-100)/365.0)
	dhi := fh * g0 * cosZ

	return Irradiance{DNI: dni, DHI: dhi, GHI: dni*cosZ + dhi}
}
