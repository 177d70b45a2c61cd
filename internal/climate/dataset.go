package climate

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/chrissnell/coolingload/internal/types"
)

// DirectionSeries is the irradiance and sun geometry of one month and one
// facade orientation. Irradiance is in W/m², angles in degrees.
type DirectionSeries struct {
	Beam       Series `json:"beam"`
	Total      Series `json:"total"`
	Incidence  Series `json:"incidence,omitempty"`
	Altitude   Series `json:"altitude,omitempty"`
	RelAzimuth Series `json:"relAzimuth,omitempty"`
}

// Diffuse returns total minus beam irradiance for hour h
func (d DirectionSeries) Diffuse(h int) float64 {
	return d.Total.At(h) - d.Beam.At(h)
}

// Angles returns the sun geometry for hour h
func (d DirectionSeries) Angles(h int) types.SunAngles {
	theta, ok := d.Incidence.Get(h)
	return types.SunAngles{
		Incidence:    theta,
		HasIncidence: ok,
		Altitude:     d.Altitude.At(h),
		RelAzimuth:   d.RelAzimuth.At(h),
	}
}

// Month holds one month of a dataset
type Month struct {
	// T2m is the hourly air temperature (°C); typical datasets only
	T2m        Series
	Directions map[string]DirectionSeries
}

// Dataset maps a month number (1-12) to its data
type Dataset map[int]Month

// Direction returns the series of a month and orientation
func (d Dataset) Direction(month int, dir string) (DirectionSeries, bool) {
	m, ok := d[month]
	if !ok {
		return DirectionSeries{}, false
	}
	ds, ok := m.Directions[dir]
	return ds, ok
}

// T2m returns the temperature series of a month, empty if absent
func (d Dataset) T2m(month int) Series {
	return d[month].T2m
}

// Months returns how many months carry data
func (d Dataset) Months() int {
	return len(d)
}

// Field names of the two irradiance file layouts
const (
	designTotalKey  = "Gcs"
	typicalTotalKey = "G"
	temperatureKey  = "T2m"
)

type rawDirection struct {
	Gb            Series `json:"Gb"`
	Gcs           Series `json:"Gcs"`
	G             Series `json:"G"`
	Theta         Series `json:"theta"`
	SolarAltitude Series `json:"solar_altitude"`
	Gamma         Series `json:"gamma"`
	Omega         Series `json:"omega"`
}

func (r rawDirection) series(totalKey string) DirectionSeries {
	ds := DirectionSeries{
		Beam:       r.Gb,
		Incidence:  r.Theta,
		Altitude:   r.SolarAltitude,
		RelAzimuth: r.Gamma,
	}
	if len(ds.RelAzimuth) == 0 {
		ds.RelAzimuth = r.Omega
	}
	if totalKey == designTotalKey {
		ds.Total = r.Gcs
	} else {
		ds.Total = r.G
	}
	return ds
}

// DecodeDesign reads a clear-sky dataset: {month: {direction: {Gb, Gcs, theta, solar_altitude, gamma}}}
func DecodeDesign(r io.Reader) (Dataset, error) {
	return decodeDataset(r, designTotalKey)
}

// DecodeTypical reads a global dataset: {month: {T2m, direction: {Gb, G}}}
func DecodeTypical(r io.Reader) (Dataset, error) {
	return decodeDataset(r, typicalTotalKey)
}

func decodeDataset(r io.Reader, totalKey string) (Dataset, error) {
	var raw map[string]map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("could not decode irradiance dataset: %w", err)
	}

	ds := make(Dataset, len(raw))
	for monthKey, fields := range raw {
		month, err := strconv.Atoi(monthKey)
		if err != nil || month < 1 || month > 12 {
			continue
		}

		m := Month{Directions: make(map[string]DirectionSeries, len(fields))}
		for key, value := range fields {
			if key == temperatureKey {
				_ = json.Unmarshal(value, &m.T2m)
				continue
			}
			var rd rawDirection
			if err := json.Unmarshal(value, &rd); err != nil {
				continue
			}
			m.Directions[key] = rd.series(totalKey)
		}
		ds[month] = m
	}
	return ds, nil
}

// EncodeDesign writes a dataset in the clear-sky file layout
func EncodeDesign(w io.Writer, d Dataset) error {
	return encodeDataset(w, d, designTotalKey)
}

// EncodeTypical writes a dataset in the global file layout
func EncodeTypical(w io.Writer, d Dataset) error {
	return encodeDataset(w, d, typicalTotalKey)
}

func encodeDataset(w io.Writer, d Dataset, totalKey string) error {
	out := make(map[string]map[string]any, len(d))
	for month, m := range d {
		fields := make(map[string]any, len(m.Directions)+1)
		if len(m.T2m) > 0 {
			fields[temperatureKey] = m.T2m
		}
		for dir, s := range m.Directions {
			rd := map[string]Series{"Gb": s.Beam, totalKey: s.Total}
			if totalKey == designTotalKey {
				rd["theta"] = s.Incidence
				rd["solar_altitude"] = s.Altitude
				rd["gamma"] = s.RelAzimuth
			}
			fields[dir] = rd
		}
		out[strconv.Itoa(month)] = fields
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
