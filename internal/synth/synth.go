// Package synth generates a self-consistent set of climate reference data for
// a site: clear-sky and typical irradiance on the 16 facade orientations, an
// RTS table and a shading attenuation table. The output is meant for
// development and demos where measured datasets are not at hand.
package synth

import (
	"fmt"
	"math"
	"time"

	"github.com/chrissnell/coolingload/internal/climate"
	"github.com/chrissnell/coolingload/internal/types"
	"github.com/chrissnell/coolingload/pkg/solar"
)

// Defaults for Options fields left at zero
const (
	DefaultClearness     = 0.75
	DefaultAnnualMean    = 9.0
	DefaultSeasonalSwing = 9.5
	DefaultDiurnalRange  = 10.0
	// representativeDay is the day of each month the series are computed for
	representativeDay = 15
	// peakSolarHour is the local solar time of the daily temperature maximum
	peakSolarHour = 15.0
)

// Options describe the site and climate to synthesise
type Options struct {
	Site solar.Site
	Year int
	// Turbidity is the Linke turbidity of the clear-sky dataset
	Turbidity float64
	// Clearness scales beam irradiance of the typical dataset against clear sky
	Clearness float64
	// AnnualMean and SeasonalSwing shape the monthly mean temperature (°C)
	AnnualMean    float64
	SeasonalSwing float64
	// DiurnalRange is the daily max-min temperature difference (°C)
	DiurnalRange float64
}

func (o Options) withDefaults() Options {
	if o.Year == 0 {
		o.Year = time.Now().Year()
	}
	if o.Turbidity <= 0 {
		o.Turbidity = solar.DefaultTurbidity
	}
	if o.Clearness <= 0 {
		o.Clearness = DefaultClearness
	}
	if o.AnnualMean == 0 {
		o.AnnualMean = DefaultAnnualMean
	}
	if o.SeasonalSwing == 0 {
		o.SeasonalSwing = DefaultSeasonalSwing
	}
	if o.DiurnalRange == 0 {
		o.DiurnalRange = DefaultDiurnalRange
	}
	return o
}

// Validate checks the site and the ranges of the options
func (o Options) Validate() error {
	if o.Site.Latitude < -90 || o.Site.Latitude > 90 {
		return fmt.Errorf("latitude %.2f out of range", o.Site.Latitude)
	}
	if o.Site.Longitude < -180 || o.Site.Longitude > 180 {
		return fmt.Errorf("longitude %.2f out of range", o.Site.Longitude)
	}
	if o.Clearness > 1 {
		return fmt.Errorf("clearness %.2f must not exceed 1", o.Clearness)
	}
	if o.DiurnalRange < 0 {
		return fmt.Errorf("diurnal range must not be negative")
	}
	return nil
}

// Generate builds the complete reference data set
func Generate(o Options) (*climate.Data, error) {
	o = o.withDefaults()
	if err := o.Validate(); err != nil {
		return nil, err
	}

	design, typical := Datasets(o)
	return &climate.Data{
		Design:  design,
		Typical: typical,
		RTS:     RTSTable(),
		Shading: ShadingTable(),
	}, nil
}

// Datasets computes the clear-sky and typical datasets for every month
func Datasets(o Options) (design, typical climate.Dataset) {
	o = o.withDefaults()
	design = make(climate.Dataset, 12)
	typical = make(climate.Dataset, 12)

	for m := 1; m <= 12; m++ {
		day := time.Date(o.Year, time.Month(m), representativeDay, 0, 0, 0, 0, time.UTC)
		d, t := month(o, day)
		t.T2m = temperatures(o, day)
		design[m] = d
		typical[m] = t
	}
	return design, typical
}

func month(o Options, day time.Time) (design, typical climate.Month) {
	design = climate.Month{Directions: make(map[string]climate.DirectionSeries, len(types.Directions))}
	typical = climate.Month{Directions: make(map[string]climate.DirectionSeries, len(types.Directions))}

	for _, dir := range types.Directions {
		az, _ := types.DirectionAzimuth(dir)
		ds := climate.DirectionSeries{
			Beam:       make(climate.Series, types.HoursPerDay),
			Total:      make(climate.Series, types.HoursPerDay),
			Incidence:  make(climate.Series, types.HoursPerDay),
			Altitude:   make(climate.Series, types.HoursPerDay),
			RelAzimuth: make(climate.Series, types.HoursPerDay),
		}
		ts := climate.DirectionSeries{
			Beam:  make(climate.Series, types.HoursPerDay),
			Total: make(climate.Series, types.HoursPerDay),
		}

		for h := 0; h < types.HoursPerDay; h++ {
			t := day.Add(time.Duration(h)*time.Hour + 30*time.Minute)
			pos := solar.SunPosition(t, o.Site)
			irr := solar.ClearSky(t, pos, o.Site.Elevation, o.Turbidity)
			f := solar.OnVertical(pos, irr, az, solar.DefaultAlbedo)

			ds.Beam[h] = round(f.Beam)
			ds.Total[h] = round(f.Total)
			ds.Incidence[h] = round(f.Incidence)
			ds.Altitude[h] = round(f.Altitude)
			ds.RelAzimuth[h] = round(f.RelAzimuth)

			// real skies trade beam for diffuse
			diffuse := (f.Total - f.Beam) * (1 + 0.5*(1-o.Clearness))
			ts.Beam[h] = round(f.Beam * o.Clearness)
			ts.Total[h] = round(f.Beam*o.Clearness + diffuse)
		}
		design.Directions[dir] = ds
		typical.Directions[dir] = ts
	}
	return design, typical
}

// MonthlyMean returns the mean air temperature of a month. The warmest month
// is July north of the equator and January south of it.
func MonthlyMean(o Options, m int) float64 {
	o = o.withDefaults()
	warmest := 7.0
	if o.Site.Latitude < 0 {
		warmest = 1
	}
	return o.AnnualMean + o.SeasonalSwing*math.Cos(2*math.Pi*(float64(m)-warmest)/12)
}

// temperatures models the day as a half-cosine rise from the minimum at
// sunrise to the maximum at 15:00 solar time, then a half-cosine fall until
// the next sunrise
func temperatures(o Options, day time.Time) climate.Series {
	mean := MonthlyMean(o, int(day.Month()))
	lo, hi := mean-o.DiurnalRange/2, mean+o.DiurnalRange/2

	peak := math.Mod(peakSolarHour-o.Site.Longitude/15+24, 24)
	riseHour := math.Mod(peak-12+24, 24)
	if rise, _, ok := solar.SunriseSunset(day, o.Site); ok {
		riseHour = float64(rise.Hour()) + float64(rise.Minute())/60
	}
	span := math.Mod(peak-riseHour+24, 24)
	if span == 0 {
		span = 12
	}

	out := make(climate.Series, types.HoursPerDay)
	for h := range out {
		since := math.Mod(float64(h)+0.5-riseHour+24, 24)
		if since <= span {
			out[h] = round(lo + (hi-lo)*(1-math.Cos(math.Pi*since/span))/2)
		} else {
			out[h] = round(hi - (hi-lo)*(1-math.Cos(math.Pi*(since-span)/(24-span)))/2)
		}
	}
	return out
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
