package calc

import (
	"github.com/chrissnell/coolingload/internal/climate"
	"github.com/chrissnell/coolingload/internal/types"
)

// Months searched for the worst month, and the answer when there is nothing to rank
const (
	firstCoolingMonth = 4
	lastCoolingMonth  = 9
	defaultWorstMonth = 7
)

// WorstMonth returns the cooling-season month with the largest daily clear-sky
// beam gain through the glazing. The ranking uses area × SHGC only: shading,
// overhangs and conduction are ignored. Ties keep the earlier month.
func WorstMonth(windows []types.Window, design climate.Dataset) int {
	if len(windows) == 0 {
		return defaultWorstMonth
	}

	worst, maxGain := defaultWorstMonth, -1.0
	for month := firstCoolingMonth; month <= lastCoolingMonth; month++ {
		gain := monthBeamGain(windows, design, month)
		if gain > maxGain {
			worst, maxGain = month, gain
		}
	}
	return worst
}

func monthBeamGain(windows []types.Window, design climate.Dataset, month int) float64 {
	var total float64
	for _, win := range windows {
		ds, ok := design.Direction(month, win.Direction)
		if !ok {
			continue
		}
		total += ds.Beam.Hourly().Sum() * win.Area() * win.SHGC.Float()
	}
	return total
}
