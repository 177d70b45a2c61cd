package shading

import (
	"math"

	"github.com/chrissnell/coolingload/internal/types"
)

// louverMaxProfile is the profile angle of the second tabulated louver IAC
const louverMaxProfile = 60.0

// Factors is the resolved attenuation of a window for one hour
type Factors struct {
	BeamIAC         float64
	DiffuseIAC      float64
	RadiantFraction float64
	// Indoor devices release their radiant share through the non-solar series
	Indoor bool
}

// Neutral is the attenuation of an unshaded window
func Neutral() Factors {
	return Factors{BeamIAC: 1, DiffuseIAC: 1, RadiantFraction: 1}
}

// Resolve returns the attenuation factors of win for one hour. Disabled
// shading, forceDisable, or a device missing from the table all give neutral
// factors; in the last case Indoor still follows the device location.
func Resolve(win types.Window, sun types.SunAngles, table Table, forceDisable bool) Factors {
	s := win.Shading
	if forceDisable || !s.Enabled {
		return Neutral()
	}

	env, ok := table.Envelope(win.Type)
	if !ok {
		return Neutral()
	}

	missing := Neutral()
	missing.Indoor = s.Location == types.LocationIndoor

	var entry Entry
	switch s.Type {
	case types.ShadingLouvers:
		le, ok := env.Louver(s.Location, s.Color, s.Setting)
		if !ok {
			return missing
		}
		profile := math.Min(math.Abs(sun.RelAzimuth), louverMaxProfile)
		iac0, iac60 := valueOr(le.IAC0, 1), valueOr(le.IAC60, 1)
		return Factors{
			BeamIAC:         iac0 + profile*(iac60-iac0)/louverMaxProfile,
			DiffuseIAC:      valueOr(le.IACDiff, 1),
			RadiantFraction: valueOr(le.FR, 1),
			Indoor:          missing.Indoor,
		}
	case types.ShadingDraperies:
		entry, ok = env.Drapery(s.Material, s.Color)
	case types.ShadingRollerShades:
		entry, ok = env.RollerShade(s.Setting)
	case types.ShadingInsectScreens:
		entry, ok = env.InsectScreen(s.Location)
	default:
		return Neutral()
	}
	if !ok {
		return missing
	}

	iac := valueOr(entry.IAC, 1)
	return Factors{
		BeamIAC:         iac,
		DiffuseIAC:      iac,
		RadiantFraction: valueOr(entry.FR, 1),
		Indoor:          missing.Indoor,
	}
}

// OverhangFactor returns the shaded fraction (0-1) of the window height cast
// by its overhang. Only beam irradiance is reduced by it.
func OverhangFactor(win types.Window, sun types.SunAngles) float64 {
	if !win.HasOverhang() || sun.Altitude <= 0 || win.Height <= 0 {
		return 0
	}

	cosGamma := math.Cos(sun.RelAzimuth * math.Pi / 180)
	if cosGamma <= -0.01 {
		return 0
	}

	tanProfile := math.Tan(sun.Altitude*math.Pi/180) / cosGamma
	if tanProfile <= 0 || math.IsInf(tanProfile, 0) || math.IsNaN(tanProfile) {
		return 0
	}

	height := win.Height.Float()
	shadow := win.Overhang.Depth.Float()*tanProfile - win.Overhang.DistanceAbove.Float()
	shaded := math.Max(0, math.Min(height, shadow))
	return shaded / height
}
