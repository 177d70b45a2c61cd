// Package shading resolves how glazing, shading devices and overhangs reduce
// the solar gain of a window hour by hour.
package shading

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/chrissnell/coolingload/internal/types"
)

// Entry is the attenuation of a non-louver device. A nil field was absent in
// the data: IAC defaults to 1.0 and FR to 1.0.
type Entry struct {
	IAC *float64 `json:"iac,omitempty"`
	FR  *float64 `json:"fr,omitempty"`
}

// LouverEntry is the attenuation of a louver setting. Beam IAC is tabulated at
// profile angles of 0° and 60°.
type LouverEntry struct {
	IAC0    *float64 `json:"iac0,omitempty"`
	IAC60   *float64 `json:"iac60,omitempty"`
	IACDiff *float64 `json:"iac_diff,omitempty"`
	FR      *float64 `json:"fr,omitempty"`
}

// Envelope is the shading sub-table of one envelope type
type Envelope struct {
	Louvers       map[types.ShadingLocation]map[types.ShadingColor]map[string]LouverEntry `json:"louvers,omitempty"`
	Draperies     map[string]Entry                                                        `json:"draperies,omitempty"`
	RollerShades  map[string]Entry                                                        `json:"roller_shades,omitempty"`
	InsectScreens map[types.ShadingLocation]Entry                                         `json:"insect_screens,omitempty"`
}

// Table is the shading attenuation database keyed by envelope type
type Table map[types.EnvelopeType]Envelope

// DefaultEnvelope is used for envelope types the table does not list
const DefaultEnvelope = types.EnvelopeStandard

// Decode reads a shading table from JSON
func Decode(r io.Reader) (Table, error) {
	var t Table
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("could not decode shading table: %w", err)
	}
	return t, nil
}

// Envelope returns the sub-table for an envelope type, falling back to standard
func (t Table) Envelope(env types.EnvelopeType) (Envelope, bool) {
	if e, ok := t[env]; ok {
		return e, true
	}
	e, ok := t[DefaultEnvelope]
	return e, ok
}

// Louver looks up a louver entry
func (e Envelope) Louver(loc types.ShadingLocation, color types.ShadingColor, setting string) (LouverEntry, bool) {
	entry, ok := e.Louvers[loc][color][setting]
	return entry, ok
}

// Drapery looks up a drapery entry by its material/color key
func (e Envelope) Drapery(material types.DraperyMaterial, color types.ShadingColor) (Entry, bool) {
	entry, ok := e.Draperies[DraperyKey(material, color)]
	return entry, ok
}

// RollerShade looks up a roller shade entry by fabric setting
func (e Envelope) RollerShade(setting string) (Entry, bool) {
	entry, ok := e.RollerShades[setting]
	return entry, ok
}

// InsectScreen looks up an insect screen entry by location
func (e Envelope) InsectScreen(loc types.ShadingLocation) (Entry, bool) {
	entry, ok := e.InsectScreens[loc]
	return entry, ok
}

// DraperyKey builds the drapery table key: "sheer" for sheer fabric, else "<material>_<color>"
func DraperyKey(material types.DraperyMaterial, color types.ShadingColor) string {
	if material == types.MaterialSheer {
		return string(types.MaterialSheer)
	}
	return string(material) + "_" + string(color)
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// Float returns a pointer to v, for building tables in code
func Float(v float64) *float64 {
	return &v
}
