// Package psychro provides the moist-air relations needed for ventilation loads
package psychro

import "math"

// StandardPressure is sea-level atmospheric pressure in Pa
const StandardPressure = 101325.0

// SaturationPressure returns the saturation vapour pressure over water in Pa
// for a temperature in °C, using the Magnus form (Bolton coefficients).
func SaturationPressure(tempC float64) float64 {
	return 611.2 * math.Exp(17.67*tempC/(tempC+243.5))
}

// HumidityRatio returns kg water per kg dry air for a vapour partial pressure in Pa
func HumidityRatio(vapourPressure float64) float64 {
	return 0.622 * vapourPressure / (StandardPressure - vapourPressure)
}

// HumidityRatioRH returns the humidity ratio at a dry-bulb temperature (°C) and
// relative humidity given as a fraction (0-1)
func HumidityRatioRH(tempC, rh float64) float64 {
	return HumidityRatio(SaturationPressure(tempC) * rh)
}

// HumidityRatioDewPoint returns the humidity ratio of air with the given dew point (°C)
func HumidityRatioDewPoint(dewPointC float64) float64 {
	return HumidityRatio(SaturationPressure(dewPointC))
}
