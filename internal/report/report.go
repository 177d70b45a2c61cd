// Package report renders calculation results as PDF and XLSX documents and
// imports window lists from spreadsheets.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/chrissnell/coolingload/internal/calc"
	"github.com/chrissnell/coolingload/internal/schedule"
	"github.com/chrissnell/coolingload/internal/types"
)

// Input is everything a report shows
type Input struct {
	Name     string
	Snapshot calc.Snapshot
	Run      calc.Run
	// WithoutShading reports the results with every shading device removed
	WithoutShading bool
	GeneratedAt    time.Time
}

// Results returns the result set the report is about
func (in Input) Results() types.Results {
	if in.WithoutShading {
		return in.Run.WithoutShading
	}
	return in.Run.WithShading
}

// Summary returns the peak summary of Results
func (in Input) Summary() calc.Summary {
	return calc.Summarize(in.Results(), in.Snapshot.Windows)
}

// Row is one hour of the hourly table, in local time
type Row struct {
	LocalHour           int
	UTCHour             int
	TExternal           float64
	Solar               float64
	Conduction          float64
	InternalSensible    float64
	VentilationSensible float64
	Latent              float64
	Sensible            float64
	Total               float64
	TotalTypical        float64
}

// Rows returns the design-day table ordered by local hour
func Rows(in Input) []Row {
	r := in.Results()
	month := r.Month
	local := func(h types.Hourly) types.Hourly {
		return schedule.ReorderLocal(h, month)
	}

	c := r.Design.Components
	tExt := local(in.Run.TExternal)
	solar := local(c.Solar)
	conduction := local(c.Conduction)
	internal := local(c.InternalSensible)
	ventilation := local(c.VentilationSensible)
	latent := local(c.Latent)
	sensible := local(r.Design.Final.Sensible)
	total := local(r.Design.Final.Total)
	typical := local(r.Typical.Final.Total)

	rows := make([]Row, types.HoursPerDay)
	for l := range rows {
		rows[l] = Row{
			LocalHour:           l,
			UTCHour:             schedule.ToUTC(l, month),
			TExternal:           tExt[l],
			Solar:               solar[l],
			Conduction:          conduction[l],
			InternalSensible:    internal[l],
			VentilationSensible: ventilation[l],
			Latent:              latent[l],
			Sensible:            sensible[l],
			Total:               total[l],
			TotalTypical:        typical[l],
		}
	}
	return rows
}

var hourlyHeaders = []string{
	"Hour", "UTC", "T ext [°C]", "Solar [W]", "Conduction [W]", "Internal [W]",
	"Ventilation [W]", "Latent [W]", "Sensible [W]", "Total [W]", "Total typical [W]",
}

func shadingLabel(w types.Window) string {
	var parts []string
	if w.Shading.Enabled {
		parts = append(parts, fmt.Sprintf("%s (%s)", w.Shading.Type, w.Shading.Location))
	}
	if w.HasOverhang() {
		parts = append(parts, "overhang")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
