package types

// EnvelopeType selects the glazing preset, SHGC correction curve and the
// shading attenuation sub-table for a window.
type EnvelopeType string

const (
	EnvelopeCustom      EnvelopeType = "custom"
	EnvelopeModern      EnvelopeType = "modern"
	EnvelopeStandard    EnvelopeType = "standard"
	EnvelopeOlderDouble EnvelopeType = "older_double"
	EnvelopeHistoric    EnvelopeType = "historic"
)

// ShadingType is the kind of shading device fitted to a window
type ShadingType string

const (
	ShadingLouvers       ShadingType = "louvers"
	ShadingDraperies     ShadingType = "draperies"
	ShadingRollerShades  ShadingType = "roller_shades"
	ShadingInsectScreens ShadingType = "insect_screens"
)

// ShadingLocation says on which side of the glass the device sits
type ShadingLocation string

const (
	LocationIndoor  ShadingLocation = "indoor"
	LocationOutdoor ShadingLocation = "outdoor"
)

// ShadingColor is the reflectance class of a shading device
type ShadingColor string

const (
	ColorLight  ShadingColor = "light"
	ColorMedium ShadingColor = "medium"
	ColorDark   ShadingColor = "dark"
)

// DraperyMaterial is the weave class of a drapery. Only draperies use it.
type DraperyMaterial string

const (
	MaterialOpen     DraperyMaterial = "open"
	MaterialSemiOpen DraperyMaterial = "semiopen"
	MaterialClosed   DraperyMaterial = "closed"
	MaterialSheer    DraperyMaterial = "sheer"
)

// Shading describes a window's shading device. Setting is interpreted per Type:
// louver tilt ("open_0", "tilted_45", "closed") or roller shade fabric
// ("white_opaque", ...).
type Shading struct {
	Enabled  bool            `json:"enabled"`
	Type     ShadingType     `json:"type"`
	Location ShadingLocation `json:"location"`
	Color    ShadingColor    `json:"color"`
	Setting  string          `json:"setting"`
	Material DraperyMaterial `json:"material"`
}

// ShadingPatch is a partial shading update applied to every window at once
type ShadingPatch struct {
	Enabled  bool             `json:"enabled"`
	Type     *ShadingType     `json:"type,omitempty"`
	Location *ShadingLocation `json:"location,omitempty"`
	Color    *ShadingColor    `json:"color,omitempty"`
	Setting  *string          `json:"setting,omitempty"`
	Material *DraperyMaterial `json:"material,omitempty"`
}

// Apply returns s with the patch fields that are set
func (p ShadingPatch) Apply(s Shading) Shading {
	s.Enabled = p.Enabled
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.Location != nil {
		s.Location = *p.Location
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.Setting != nil {
		s.Setting = *p.Setting
	}
	if p.Material != nil {
		s.Material = *p.Material
	}
	return s
}

// Overhang is a horizontal projection above a window
type Overhang struct {
	Enabled       bool    `json:"enabled"`
	Depth         Number `json:"depth"`         // horizontal projection from the facade, m
	DistanceAbove Number `json:"distanceAbove"` // vertical gap between window head and overhang, m
}

// Window is a single glazed opening of the room
type Window struct {
	ID        int          `json:"id"`
	Type      EnvelopeType `json:"type"`
	Direction string       `json:"direction"`
	U         Number       `json:"u"`    // W/m²K
	SHGC      Number       `json:"shgc"` // 0-1
	Width     Number       `json:"width"`
	Height    Number       `json:"height"`
	Shading   Shading      `json:"shading"`
	Overhang  *Overhang    `json:"overhang,omitempty"`
}

// Area returns the glazed area in m²
func (w Window) Area() float64 {
	return w.Width.Float() * w.Height.Float()
}

// HasOverhang reports whether an enabled overhang is fitted
func (w Window) HasOverhang() bool {
	return w.Overhang != nil && w.Overhang.Enabled
}
