package types

// Directions lists the 16 compass points in clockwise order from north
var Directions = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// DirectionAzimuth maps a compass point to its azimuth in degrees from north
func DirectionAzimuth(dir string) (float64, bool) {
	for i, d := range Directions {
		if d == dir {
			return float64(i) * 22.5, true
		}
	}
	return 0, false
}

// WindowPreset holds the default thermal properties of an envelope type
type WindowPreset struct {
	U    float64
	SHGC float64
}

// WindowPresets are the U/SHGC defaults per envelope type
var WindowPresets = map[EnvelopeType]WindowPreset{
	EnvelopeCustom:      {U: 1.1, SHGC: 0.6},
	EnvelopeModern:      {U: 0.9, SHGC: 0.5},
	EnvelopeStandard:    {U: 1.1, SHGC: 0.6},
	EnvelopeOlderDouble: {U: 1.8, SHGC: 0.7},
	EnvelopeHistoric:    {U: 4.8, SHGC: 0.82},
}

// Activity holds per-person heat emission for an activity level
type Activity struct {
	Label           string
	Sensible        float64 // W
	Latent          float64 // W
	RadiantFraction float64
}

// ActivityLevels per ASHRAE occupant heat gain tables
var ActivityLevels = map[ActivityLevel]Activity{
	ActivitySeatedVeryLight: {Label: "Seated, very light (115 W)", Sensible: 70, Latent: 45, RadiantFraction: 0.60},
	ActivityStandingLight:   {Label: "Standing, light (130 W)", Sensible: 75, Latent: 55, RadiantFraction: 0.58},
	ActivityWalkingModerate: {Label: "Walking, moderate (295 W)", Sensible: 110, Latent: 185, RadiantFraction: 0.49},
	ActivityHeavySport:      {Label: "Heavy, sport (525 W)", Sensible: 210, Latent: 315, RadiantFraction: 0.54},
}

// LightingType describes a luminaire family
type LightingType struct {
	Label             string
	PowerDensity      float64 // typical W/m²
	RadiativeFraction float64
	SpaceFraction     float64
}

// LightingTypes keyed by fixture type
var LightingTypes = map[string]LightingType{
	"led_troffer":         {Label: "LED panels", PowerDensity: 8.0, RadiativeFraction: 0.37, SpaceFraction: 1.0},
	"fluorescent_troffer": {Label: "Fluorescent troffers", PowerDensity: 17.0, RadiativeFraction: 0.43, SpaceFraction: 1.0},
	"incandescent":        {Label: "Incandescent", PowerDensity: 30.0, RadiativeFraction: 0.82, SpaceFraction: 1.0},
	"halogen":             {Label: "Halogen", PowerDensity: 25.0, RadiativeFraction: 0.70, SpaceFraction: 1.0},
}

// Exchanger holds the recovery efficiencies of a ventilation heat exchanger
type Exchanger struct {
	Label    string
	Sensible float64 // η_s
	Latent   float64 // η_l
}

// Exchangers keyed by exchanger type
var Exchangers = map[ExchangerType]Exchanger{
	ExchangerCounterflowHRV:   {Label: "Counterflow (HRV)", Sensible: 0.88, Latent: 0.00},
	ExchangerCounterflowERV:   {Label: "Counterflow enthalpy (ERV)", Sensible: 0.80, Latent: 0.70},
	ExchangerRotaryCondensing: {Label: "Rotary, condensing", Sensible: 0.85, Latent: 0.10},
	ExchangerRotarySorption:   {Label: "Rotary, sorption", Sensible: 0.85, Latent: 0.80},
}

// EquipmentPreset is a quick-add equipment item
type EquipmentPreset struct {
	Label string
	Power float64
	// AlwaysOn items get a 0-24 schedule instead of office hours
	AlwaysOn bool
}

// EquipmentPresets keyed by preset name
var EquipmentPresets = map[string]EquipmentPreset{
	"pc":      {Label: "Desktop PC", Power: 150},
	"laptop":  {Label: "Laptop", Power: 60},
	"monitor": {Label: "Monitor", Power: 40},
	"printer": {Label: "Laser printer", Power: 100},
	"tv":      {Label: "LED TV", Power: 80},
	"coffee":  {Label: "Coffee machine", Power: 120},
	"fridge":  {Label: "Fridge", Power: 50, AlwaysOn: true},
}
