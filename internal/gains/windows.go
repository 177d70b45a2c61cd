package gains

import (
	"github.com/chrissnell/coolingload/internal/climate"
	"github.com/chrissnell/coolingload/internal/shading"
	"github.com/chrissnell/coolingload/internal/types"
)

// Conduction radiant fractions for glazing, split at SHGC 0.55
const (
	conductionSHGCThreshold   = 0.55
	conductionRadiantLowSHGC  = 0.46
	conductionRadiantHighSHGC = 0.33
)

// Scenario selects the irradiance dataset used for solar gains
type Scenario int

const (
	// Design uses the clear-sky beam and total irradiance
	Design Scenario = iota
	// Typical uses the global beam and total irradiance
	Typical
)

func (s Scenario) String() string {
	if s == Typical {
		return "typical"
	}
	return "design"
}

// WindowStreams are the window gains of one scenario, split by how the
// cooling load is derived from them
type WindowStreams struct {
	// SolarRadiantSolar is radiant solar gain delayed with the solar series
	SolarRadiantSolar types.Hourly
	// SolarRadiantNonSolar is radiant solar gain re-emitted by indoor shading,
	// delayed with the non-solar series
	SolarRadiantNonSolar types.Hourly
	SolarConvective      types.Hourly
	ConductionRadiant    types.Hourly
	ConductionConvective types.Hourly

	// SolarTotal and ConductionTotal are the raw gains before any split
	SolarTotal      types.Hourly
	ConductionTotal types.Hourly
}

// WindowInput is everything the window gain model needs
type WindowInput struct {
	Windows        []types.Window
	TInternal      float64
	TExternal      types.Hourly
	Month          int
	Data           *climate.Data
	WithoutShading bool
}

// ConductionRadiantFraction returns the radiant share of glazing conduction
func ConductionRadiantFraction(shgc float64) float64 {
	if shgc <= conductionSHGCThreshold {
		return conductionRadiantLowSHGC
	}
	return conductionRadiantHighSHGC
}

// Accumulate sums the gains of every window for one scenario. Sun geometry
// always comes from the design dataset. A window whose orientation has no
// design data still conducts heat but receives no solar gain.
func Accumulate(in WindowInput, scenario Scenario) WindowStreams {
	var s WindowStreams
	for _, win := range in.Windows {
		s.addConduction(win, in.TInternal, in.TExternal)

		geometry, ok := in.Data.Design.Direction(in.Month, win.Direction)
		if !ok {
			continue
		}
		irradiance := geometry
		if scenario == Typical {
			irradiance, _ = in.Data.Typical.Direction(in.Month, win.Direction)
		}
		s.addSolar(win, geometry, irradiance, in.Data.Shading, in.WithoutShading)
	}
	return s
}

func (s *WindowStreams) addConduction(win types.Window, tInternal float64, tExt types.Hourly) {
	area := win.Area()
	rf := ConductionRadiantFraction(win.SHGC.Float())
	for h := range tExt {
		q := win.U.Float() * area * (tExt[h] - tInternal)
		s.ConductionTotal[h] += q
		s.ConductionRadiant[h] += q * rf
		s.ConductionConvective[h] += q * (1 - rf)
	}
}

func (s *WindowStreams) addSolar(win types.Window, geometry, irradiance climate.DirectionSeries, table shading.Table, withoutShading bool) {
	for h := 0; h < types.HoursPerDay; h++ {
		q, f := SolarGain(win, geometry.Angles(h), irradiance.Beam.At(h), irradiance.Diffuse(h), table, withoutShading)

		radiant := q * f.RadiantFraction
		s.SolarTotal[h] += q
		s.SolarConvective[h] += q - radiant
		if f.Indoor {
			s.SolarRadiantNonSolar[h] += radiant
		} else {
			s.SolarRadiantSolar[h] += radiant
		}
	}
}

// SolarGain returns the solar heat gain (W) of one window for one hour and the
// shading factors it used. The overhang shadow reduces beam irradiance only.
func SolarGain(win types.Window, sun types.SunAngles, beam, diffuse float64, table shading.Table, withoutShading bool) (float64, shading.Factors) {
	area := win.Area()
	beam *= 1 - shading.OverhangFactor(win, sun)

	f := shading.Resolve(win, sun, table, withoutShading)
	shgc := shading.CorrectedSHGC(win, sun)

	q := beam*shgc.Direct*area*f.BeamIAC + diffuse*shgc.Diffuse*area*f.DiffuseIAC
	return q, f
}

// IncidentPower returns the clear-sky irradiance reaching all glazing (W),
// before any glass or shading losses
func IncidentPower(windows []types.Window, design climate.Dataset, month int) types.Hourly {
	var out types.Hourly
	for _, win := range windows {
		ds, ok := design.Direction(month, win.Direction)
		if !ok {
			continue
		}
		area := win.Area()
		for h := range out {
			out[h] += ds.Total.At(h) * area
		}
	}
	return out
}
