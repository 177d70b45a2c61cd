package synth

import (
	"math"
	"strconv"

	"github.com/chrissnell/coolingload/internal/shading"
	"github.com/chrissnell/coolingload/internal/types"
	"github.com/chrissnell/coolingload/pkg/rts"
)

// decay ratios of the geometric RTS series per thermal mass
var massRatios = map[types.ThermalMass]float64{
	types.MassLight:     0.35,
	types.MassMedium:    0.55,
	types.MassHeavy:     0.70,
	types.MassVeryHeavy: 0.80,
}

// RTSTable builds a table of geometric decay series for every mass, floor and
// glazing bucket. Tiles store more heat than panels; more glazing lets solar
// gain reach the floor and leave faster. Non-solar series front-load their
// convective share.
func RTSTable() rts.Table {
	t := make(rts.Table, len(massRatios))
	for mass, ratio := range massRatios {
		floors := make(map[string]map[string]rts.Entry, 2)
		for _, floor := range []types.FloorType{types.FloorPanels, types.FloorTiles} {
			r := ratio
			if floor == types.FloorTiles {
				r += 0.05
			}
			buckets := make(map[string]rts.Entry, 3)
			for i, bucket := range []int{10, 50, 90} {
				solarRatio := r - 0.02*float64(i)
				buckets[strconv.Itoa(bucket)] = rts.Entry{
					Solar:    seriesSlice(rts.Exponential(solarRatio)),
					NonSolar: seriesSlice(rts.Exponential(solarRatio * 0.9)),
				}
			}
			floors[string(floor)] = buckets
		}
		t[string(mass)] = floors
	}
	return t
}

func seriesSlice(s rts.Series) []float64 {
	out := make([]float64, len(s))
	copy(out, s[:])
	return out
}

// attenuation of each envelope type relative to standard double glazing
var envelopeFactors = map[types.EnvelopeType]float64{
	types.EnvelopeCustom:      1.0,
	types.EnvelopeModern:      1.04,
	types.EnvelopeStandard:    1.0,
	types.EnvelopeOlderDouble: 0.97,
	types.EnvelopeHistoric:    0.93,
}

type louverIAC struct{ iac0, iac60 float64 }

var louverBase = map[types.ShadingLocation]map[string]louverIAC{
	types.LocationIndoor: {
		"open_0":    {0.98, 0.90},
		"tilted_45": {0.85, 0.65},
		"closed":    {0.70, 0.60},
	},
	types.LocationOutdoor: {
		"open_0":    {0.60, 0.30},
		"tilted_45": {0.40, 0.15},
		"closed":    {0.15, 0.12},
	},
}

var colorFactors = map[types.ShadingColor]float64{
	types.ColorLight:  1.0,
	types.ColorMedium: 1.05,
	types.ColorDark:   1.12,
}

var draperyBase = map[types.DraperyMaterial]float64{
	types.MaterialOpen:     0.80,
	types.MaterialSemiOpen: 0.70,
	types.MaterialClosed:   0.55,
}

var rollerShades = map[string]float64{
	"light_translucent":            0.66,
	"light_gray_translucent":       0.75,
	"dark_gray_translucent":        0.82,
	"reflective_white_translucent": 0.52,
	"white_opaque":                 0.44,
	"dark_opaque":                  0.79,
	"reflective_white_opaque":      0.35,
}

// ShadingTable builds an attenuation table covering every envelope type,
// device and setting offered by the input forms
func ShadingTable() shading.Table {
	t := make(shading.Table, len(envelopeFactors))
	for env, ef := range envelopeFactors {
		e := shading.Envelope{
			Louvers:       make(map[types.ShadingLocation]map[types.ShadingColor]map[string]shading.LouverEntry, 2),
			Draperies:     make(map[string]shading.Entry),
			RollerShades:  make(map[string]shading.Entry, len(rollerShades)),
			InsectScreens: make(map[types.ShadingLocation]shading.Entry, 2),
		}

		for loc, settings := range louverBase {
			fr := 0.54
			if loc == types.LocationOutdoor {
				fr = 0.1
			}
			colors := make(map[types.ShadingColor]map[string]shading.LouverEntry, len(colorFactors))
			for color, cf := range colorFactors {
				entries := make(map[string]shading.LouverEntry, len(settings))
				for setting, v := range settings {
					i0, i60 := iac(v.iac0*cf*ef), iac(v.iac60*cf*ef)
					entries[setting] = shading.LouverEntry{
						IAC0:    shading.Float(i0),
						IAC60:   shading.Float(i60),
						IACDiff: shading.Float(round((i0 + i60) / 2)),
						FR:      shading.Float(fr),
					}
				}
				colors[color] = entries
			}
			e.Louvers[loc] = colors
		}

		for material, base := range draperyBase {
			for color, cf := range colorFactors {
				e.Draperies[shading.DraperyKey(material, color)] = shading.Entry{
					IAC: shading.Float(iac(base * cf * ef)),
					FR:  shading.Float(0.4),
				}
			}
		}
		e.Draperies[shading.DraperyKey(types.MaterialSheer, "")] = shading.Entry{
			IAC: shading.Float(iac(0.9 * ef)),
			FR:  shading.Float(0.4),
		}

		for setting, base := range rollerShades {
			e.RollerShades[setting] = shading.Entry{IAC: shading.Float(iac(base * ef)), FR: shading.Float(0.6)}
		}

		e.InsectScreens[types.LocationIndoor] = shading.Entry{IAC: shading.Float(iac(0.9 * ef)), FR: shading.Float(0.5)}
		e.InsectScreens[types.LocationOutdoor] = shading.Entry{IAC: shading.Float(iac(0.64 * ef)), FR: shading.Float(0.1)}

		t[env] = e
	}
	return t
}

// iac rounds an attenuation coefficient and caps it at 1
func iac(v float64) float64 {
	return round(math.Min(v, 1))
}
