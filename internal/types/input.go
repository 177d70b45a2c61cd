package types

// Fallbacks applied when a room field is blank or zero
const (
	DefaultTInternal  = 24.0
	DefaultRHInternal = 50.0
	DefaultTExternal  = 35.0
	DefaultRoomArea   = 20.0
	DefaultTDewPoint  = 15.0
)

// RoomInput holds the room-level design conditions as entered on the form
type RoomInput struct {
	ProjectName string `json:"projectName"`
	TInternal   Number `json:"tInternal"`  // °C
	RHInternal  Number `json:"rhInternal"` // %
	TExternal   Number `json:"tExternal"`  // design peak, °C
	RoomArea    Number `json:"roomArea"`   // m²
	TDewPoint   Number `json:"tDewPoint"`  // external dew point, °C
}

// DefaultRoomInput returns the form values of a new project
func DefaultRoomInput() RoomInput {
	return RoomInput{
		ProjectName: "My Project",
		TInternal:   24,
		RHInternal:  50,
		TExternal:   35,
		RoomArea:    25,
		TDewPoint:   15,
	}
}

// Conditions is RoomInput after coercion
type Conditions struct {
	TInternal  float64
	RHInternal float64 // fraction, 0-1
	TExternal  float64
	RoomArea   float64
	TDewPoint  float64
}

// Conditions coerces the form values into calculation inputs
func (r RoomInput) Conditions() Conditions {
	return Conditions{
		TInternal:  r.TInternal.OrDefault(DefaultTInternal),
		RHInternal: r.RHInternal.OrDefault(DefaultRHInternal) / 100,
		TExternal:  r.TExternal.OrDefault(DefaultTExternal),
		RoomArea:   r.RoomArea.OrDefault(DefaultRoomArea),
		TDewPoint:  r.TDewPoint.OrDefault(DefaultTDewPoint),
	}
}
