package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chrissnell/coolingload/internal/climate"
	"github.com/chrissnell/coolingload/internal/log"
	"github.com/chrissnell/coolingload/internal/synth"
	"github.com/chrissnell/coolingload/pkg/solar"
)

func main() {
	var (
		opts  synth.Options
		files = climate.DefaultFileNames()
	)
	outDir := flag.String("out", "data", "Directory to write the climate files to")
	flag.Float64Var(&opts.Site.Latitude, "lat", 52.23, "Site latitude in degrees, positive north")
	flag.Float64Var(&opts.Site.Longitude, "lon", 21.01, "Site longitude in degrees, positive east")
	flag.Float64Var(&opts.Site.Elevation, "elevation", 100, "Site elevation in metres")
	flag.IntVar(&opts.Year, "year", 0, "Year the representative days fall in (default: current year)")
	flag.Float64Var(&opts.Turbidity, "turbidity", solar.DefaultTurbidity, "Linke turbidity of the clear-sky dataset")
	flag.Float64Var(&opts.Clearness, "clearness", synth.DefaultClearness, "Beam fraction of the typical dataset relative to clear sky")
	flag.Float64Var(&opts.AnnualMean, "mean-temp", synth.DefaultAnnualMean, "Annual mean air temperature in °C")
	flag.Float64Var(&opts.SeasonalSwing, "seasonal-swing", synth.DefaultSeasonalSwing, "Half the difference between the warmest and coldest monthly mean in °C")
	flag.Float64Var(&opts.DiurnalRange, "diurnal-range", synth.DefaultDiurnalRange, "Daily temperature range in °C")
	flag.StringVar(&files.Design, "design-file", files.Design, "File name of the clear-sky dataset")
	flag.StringVar(&files.Typical, "typical-file", files.Typical, "File name of the typical dataset")
	flag.StringVar(&files.RTS, "rts-file", files.RTS, "File name of the RTS table")
	flag.StringVar(&files.Shading, "shading-file", files.Shading, "File name of the shading table")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	data, err := synth.Generate(opts)
	if err != nil {
		log.Fatalf("could not generate climate data: %v", err)
	}
	if err := data.RTS.Validate(1e-6); err != nil {
		log.Fatalf("generated rts table is invalid: %v", err)
	}

	if err := climate.WriteDir(*outDir, files, data); err != nil {
		log.Fatalf("could not write climate data: %v", err)
	}

	year := opts.Year
	if year == 0 {
		year = time.Now().Year()
	}
	midsummer := time.Date(year, time.June, 21, 0, 0, 0, 0, time.UTC)
	if rise, set, ok := solar.SunriseSunset(midsummer, opts.Site); ok {
		log.Infof("21 June daylight at %.2f,%.2f: %s to %s UTC", opts.Site.Latitude, opts.Site.Longitude, solar.FormatSunTime(rise, time.UTC), solar.FormatSunTime(set, time.UTC))
	}
	log.Infof("wrote %d months of climate data to %s", data.Design.Months(), *outDir)
}
