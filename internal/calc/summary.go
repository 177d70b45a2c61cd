package calc

import (
	"gonum.org/v1/gonum/stat"

	"github.com/chrissnell/coolingload/internal/schedule"
	"github.com/chrissnell/coolingload/internal/types"
)

// Summary describes the design-day peak of a result
type Summary struct {
	Month         int    `json:"month"`
	Zone          string `json:"zone"`
	PeakHourUTC   int    `json:"peakHourUtc"`
	PeakHourLocal int    `json:"peakHourLocal"`

	PeakTotal    float64 `json:"peakTotal"`
	PeakSensible float64 `json:"peakSensible"`
	PeakLatent   float64 `json:"peakLatent"`

	// Sensible loads by source at the peak hour
	Solar               float64 `json:"solar"`
	Conduction          float64 `json:"conduction"`
	InternalSensible    float64 `json:"internalSensible"`
	VentilationSensible float64 `json:"ventilationSensible"`

	// Latent loads by source at the peak hour
	InternalLatent    float64 `json:"internalLatent"`
	VentilationLatent float64 `json:"ventilationLatent"`

	MeanTotal          float64 `json:"meanTotal"`
	DailyEnergyDesign  float64 `json:"dailyEnergyDesignKWh"`
	DailyEnergyTypical float64 `json:"dailyEnergyTypicalKWh"`
	ShadingEnabled     bool    `json:"shadingEnabled"`
}

// Summarize extracts the design-day peak and daily energy of r
func Summarize(r types.Results, windows []types.Window) Summary {
	total := r.Design.Final.Total
	peak, hour := total.Peak()
	c := r.Design.Components

	s := Summary{
		Month:               r.Month,
		Zone:                schedule.ZoneLabel(r.Month),
		PeakHourUTC:         hour,
		PeakHourLocal:       schedule.ToLocal(hour, r.Month),
		PeakTotal:           peak,
		PeakSensible:        r.Design.Final.Sensible[hour],
		PeakLatent:          r.Design.Final.Latent[hour],
		Solar:               c.Solar[hour],
		Conduction:          c.Conduction[hour],
		InternalSensible:    c.InternalSensible[hour],
		VentilationSensible: c.VentilationSensible[hour],
		InternalLatent:      r.Components.InternalLatent[hour],
		VentilationLatent:   r.VentilationLoad.Latent[hour],
		MeanTotal:           stat.Mean(total[:], nil),
		DailyEnergyDesign:   total.Sum() / 1000,
		DailyEnergyTypical:  r.Typical.Final.Total.Sum() / 1000,
	}
	for _, win := range windows {
		if win.Shading.Enabled {
			s.ShadingEnabled = true
			break
		}
	}
	return s
}
