package types

// ThermalMass is the construction mass class used to pick an RTS series
type ThermalMass string

const (
	MassLight     ThermalMass = "light"
	MassMedium    ThermalMass = "medium"
	MassHeavy     ThermalMass = "heavy"
	MassVeryHeavy ThermalMass = "very_heavy"
)

// FloorType is the floor finish used to pick an RTS series
type FloorType string

const (
	FloorPanels FloorType = "panels"
	FloorTiles  FloorType = "tiles"
	FloorCarpet FloorType = "carpet"
)

// AccumulationSettings controls whether and how radiant gains are delayed
type AccumulationSettings struct {
	Include         bool        `json:"include"`
	ThermalMass     ThermalMass `json:"thermalMass"`
	FloorType       FloorType   `json:"floorType"`
	GlassPercentage Number      `json:"glassPercentage"`
}

// DefaultAccumulation mirrors the settings a new project starts with
func DefaultAccumulation() AccumulationSettings {
	return AccumulationSettings{
		Include:         true,
		ThermalMass:     MassVeryHeavy,
		FloorType:       FloorPanels,
		GlassPercentage: 50,
	}
}

// ActivityLevel is the occupant activity class
type ActivityLevel string

const (
	ActivitySeatedVeryLight ActivityLevel = "seated_very_light"
	ActivityStandingLight   ActivityLevel = "standing_light"
	ActivityWalkingModerate ActivityLevel = "walking_moderate"
	ActivityHeavySport      ActivityLevel = "heavy_sport"
)

// ExchangerType is the ventilation heat recovery device
type ExchangerType string

const (
	ExchangerCounterflowHRV   ExchangerType = "counterflow_hrv"
	ExchangerCounterflowERV   ExchangerType = "counterflow_erv"
	ExchangerRotaryCondensing ExchangerType = "rotary_condensing"
	ExchangerRotarySorption   ExchangerType = "rotary_sorption"
)

// PeopleGains describes occupancy. Hours are local time.
type PeopleGains struct {
	Enabled       bool          `json:"enabled"`
	Count         Number        `json:"count"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	StartHour     Number        `json:"startHour"`
	EndHour       Number        `json:"endHour"`
}

// LightingGains describes the lighting installation. Hours are local time.
type LightingGains struct {
	Enabled      bool   `json:"enabled"`
	Type         string `json:"type"`
	PowerDensity Number `json:"powerDensity"` // W/m²
	StartHour    Number `json:"startHour"`
	EndHour      Number `json:"endHour"`
}

// EquipmentGains is one line of the equipment list. Hours are local time.
type EquipmentGains struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Power     Number `json:"power"` // W per unit
	Quantity  Number `json:"quantity"`
	StartHour Number `json:"startHour"`
	EndHour   Number `json:"endHour"`
}

// VentilationGains describes mechanical ventilation with heat recovery
type VentilationGains struct {
	Enabled       bool          `json:"enabled"`
	Airflow       Number        `json:"airflow"` // m³/h
	ExchangerType ExchangerType `json:"exchangerType"`
}

// InternalGains groups all whole-room gains
type InternalGains struct {
	People      PeopleGains      `json:"people"`
	Lighting    LightingGains    `json:"lighting"`
	Equipment   []EquipmentGains `json:"equipment"`
	Ventilation VentilationGains `json:"ventilation"`
}

// DefaultInternalGains returns the disabled-by-default gains of a new project
func DefaultInternalGains() InternalGains {
	return InternalGains{
		People: PeopleGains{
			Count:         1,
			ActivityLevel: ActivitySeatedVeryLight,
			StartHour:     8,
			EndHour:       16,
		},
		Lighting: LightingGains{
			Type:         "led_troffer",
			PowerDensity: 8,
			StartHour:    8,
			EndHour:      16,
		},
		Equipment: []EquipmentGains{},
		Ventilation: VentilationGains{
			Airflow:       150,
			ExchangerType: ExchangerCounterflowHRV,
		},
	}
}
