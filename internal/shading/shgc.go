package shading

import (
	"math"

	"github.com/chrissnell/coolingload/internal/types"
)

// SHGC is a window's solar heat gain coefficient corrected for one hour
type SHGC struct {
	Direct  float64
	Diffuse float64
}

// curveStep is the incidence angle spacing of the correction curves
const curveStep = 10.0

// directCurve holds the beam SHGC multiplier at 0°, 10°, ... 90° incidence
type directCurve [10]float64

var directCurves = map[types.EnvelopeType]directCurve{
	types.EnvelopeModern:      {1.00, 1.00, 1.00, 0.99, 0.97, 0.92, 0.82, 0.62, 0.30, 0.00},
	types.EnvelopeStandard:    {1.00, 1.00, 1.00, 0.99, 0.97, 0.93, 0.85, 0.68, 0.37, 0.00},
	types.EnvelopeOlderDouble: {1.00, 1.00, 1.00, 0.99, 0.97, 0.92, 0.83, 0.65, 0.34, 0.00},
	types.EnvelopeHistoric:    {1.00, 1.00, 1.00, 0.99, 0.98, 0.95, 0.90, 0.77, 0.48, 0.00},
	types.EnvelopeCustom:      {1.00, 1.00, 1.00, 0.99, 0.98, 0.95, 0.90, 0.77, 0.48, 0.00},
}

var diffuseMultipliers = map[types.EnvelopeType]float64{
	types.EnvelopeModern:      0.86,
	types.EnvelopeStandard:    0.88,
	types.EnvelopeOlderDouble: 0.86,
	types.EnvelopeHistoric:    0.90,
	types.EnvelopeCustom:      1.0,
}

// at interpolates the curve linearly between the tabulated angles
func (c directCurve) at(theta float64) float64 {
	if theta <= 0 {
		return c[0]
	}
	i := int(theta / curveStep)
	if i >= len(c)-1 {
		return c[len(c)-1]
	}
	frac := (theta - float64(i)*curveStep) / curveStep
	return c[i] + frac*(c[i+1]-c[i])
}

// CorrectedSHGC returns the direct and diffuse SHGC of win for one hour. The
// direct value follows the envelope's incidence angle curve and is zero when
// the beam is at or beyond grazing, or when the incidence angle is unknown.
func CorrectedSHGC(win types.Window, sun types.SunAngles) SHGC {
	mult, ok := diffuseMultipliers[win.Type]
	if !ok {
		mult = 1.0
	}
	out := SHGC{Diffuse: win.SHGC.Float() * mult}

	if !sun.HasIncidence || sun.Incidence >= 90 || math.IsNaN(sun.Incidence) {
		return out
	}

	curve, ok := directCurves[win.Type]
	if !ok {
		curve = directCurves[DefaultEnvelope]
	}
	out.Direct = win.SHGC.Float() * curve.at(sun.Incidence)
	return out
}
