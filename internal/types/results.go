package types

import "gonum.org/v1/gonum/floats"

// HoursPerDay is the length of every profile handled by the calculator
const HoursPerDay = 24

// Hourly is a 24-hour profile indexed by UTC hour
type Hourly [HoursPerDay]float64

// Plus returns the element-wise sum of h and the other profiles
func (h Hourly) Plus(others ...Hourly) Hourly {
	out := h
	for i := range others {
		floats.Add(out[:], others[i][:])
	}
	return out
}

// Minus returns h - o element-wise
func (h Hourly) Minus(o Hourly) Hourly {
	out := h
	floats.Sub(out[:], o[:])
	return out
}

// Scale returns h multiplied by c
func (h Hourly) Scale(c float64) Hourly {
	out := h
	floats.Scale(c, out[:])
	return out
}

// Sum returns the daily sum of the profile
func (h Hourly) Sum() float64 {
	return floats.Sum(h[:])
}

// Peak returns the maximum value and the first hour it occurs at
func (h Hourly) Peak() (float64, int) {
	idx := floats.MaxIdx(h[:])
	return h[idx], idx
}

// LoadSeries is a sensible/latent/total triple
type LoadSeries struct {
	Sensible Hourly `json:"sensible"`
	Latent   Hourly `json:"latent"`
	Total    Hourly `json:"total"`
}

// NewLoadSeries builds a LoadSeries and derives the total
func NewLoadSeries(sensible, latent Hourly) LoadSeries {
	return LoadSeries{
		Sensible: sensible,
		Latent:   latent,
		Total:    sensible.Plus(latent),
	}
}

// LoadComponents splits a scenario's cooling load by source. The five series
// add up to the scenario total at every hour.
type LoadComponents struct {
	Solar               Hourly `json:"solar"`
	Conduction          Hourly `json:"conduction"`
	InternalSensible    Hourly `json:"internalSensible"`
	VentilationSensible Hourly `json:"ventilationSensible"`
	Latent              Hourly `json:"latent"`
}

// Total returns the hourly sum of all components
func (c LoadComponents) Total() Hourly {
	return c.Solar.Plus(c.Conduction, c.InternalSensible, c.VentilationSensible, c.Latent)
}

// ScenarioResult is the outcome for one irradiance dataset
type ScenarioResult struct {
	Final      LoadSeries     `json:"final"`
	Windows    LoadSeries     `json:"windows"`
	Components LoadComponents `json:"components"`
}

// GainComponents are the instantaneous (pre-RTS) gains behind the loads.
// Conduction and internal gains do not depend on the irradiance dataset.
type GainComponents struct {
	SolarTypical         Hourly `json:"solarGainsGlobal"`
	SolarDesign          Hourly `json:"solarGainsClearSky"`
	ConductionRadiant    Hourly `json:"conductionGainsRadiant"`
	ConductionConvective Hourly `json:"conductionGainsConvective"`
	InternalRadiant      Hourly `json:"internalGainsSensibleRadiant"`
	InternalConvective   Hourly `json:"internalGainsSensibleConvective"`
	InternalLatent       Hourly `json:"internalGainsLatent"`
}

// Results is the complete output of one calculation
type Results struct {
	Month              int            `json:"month"`
	Design             ScenarioResult `json:"clearSky"`
	Typical            ScenarioResult `json:"global"`
	InternalGainsLoad  LoadSeries     `json:"internalGainsLoad"`
	VentilationLoad    LoadSeries     `json:"ventilationLoad"`
	Components         GainComponents `json:"components"`
	IncidentSolarPower Hourly         `json:"incidentSolarPower"`
}
