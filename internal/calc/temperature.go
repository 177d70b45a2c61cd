package calc

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/chrissnell/coolingload/internal/climate"
	"github.com/chrissnell/coolingload/internal/types"
)

const (
	// diurnalAmplitude is half the assumed daily temperature swing in °C
	diurnalAmplitude = 5.0
	// diurnalPeakHour is the UTC hour of the synthetic maximum
	diurnalPeakHour = 14
)

// TemperatureProfile returns the hourly outdoor temperature for a month with
// its maximum equal to peak. The month's reference profile is shifted when the
// typical dataset has one; otherwise a cosine day peaking at 14:00 is used.
func TemperatureProfile(peak float64, month int, typical climate.Dataset) types.Hourly {
	ref := typical.T2m(month)
	if ref.Valid() {
		profile := ref.Hourly()
		return profile.Plus(constant(peak - floats.Max(profile[:])))
	}

	var profile types.Hourly
	mean := peak - diurnalAmplitude
	for h := range profile {
		profile[h] = mean + diurnalAmplitude*math.Cos(2*math.Pi*float64(h-diurnalPeakHour)/types.HoursPerDay)
	}
	return profile
}

func constant(v float64) types.Hourly {
	var h types.Hourly
	for i := range h {
		h[i] = v
	}
	return h
}
