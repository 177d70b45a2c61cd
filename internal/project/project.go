// Package project keeps the editable state of a cooling-load project and
// persists it.
package project

import (
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/coolingload/internal/calc"
	"github.com/chrissnell/coolingload/internal/types"
)

var (
	ErrNotFound          = errors.New("project not found")
	ErrWindowNotFound    = errors.New("window not found")
	ErrEquipmentNotFound = errors.New("equipment item not found")
	ErrInvalidWindow     = errors.New("invalid window")
)

// Defaults for equipment added without a preset
const (
	defaultEquipmentName  = "New device"
	defaultEquipmentPower = 100
	officeStartHour       = 8
	officeEndHour         = 16
)

// Project is one room with its windows and gains
type Project struct {
	ID           string                     `json:"id"`
	Room         types.RoomInput            `json:"input"`
	Windows      []types.Window             `json:"windows"`
	Accumulation types.AccumulationSettings `json:"accumulation"`
	Internal     types.InternalGains        `json:"internalGains"`
	// Month pins the calculation month; empty means worst month
	Month     string    `json:"month,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New returns a project with the defaults of an empty form
func New(name string) *Project {
	p := &Project{}
	p.Reset()
	if name != "" {
		p.Room.ProjectName = name
	}
	return p
}

// Name returns the project name
func (p *Project) Name() string {
	return p.Room.ProjectName
}

// Reset restores every input to its default. ID and creation time are kept.
func (p *Project) Reset() {
	p.Room = types.DefaultRoomInput()
	p.Windows = []types.Window{}
	p.Accumulation = types.DefaultAccumulation()
	p.Internal = types.DefaultInternalGains()
	p.Month = ""
}

// Snapshot returns a deep copy of the calculation inputs
func (p *Project) Snapshot() calc.Snapshot {
	windows := make([]types.Window, len(p.Windows))
	for i, w := range p.Windows {
		windows[i] = copyWindow(w)
	}
	internal := p.Internal
	internal.Equipment = append([]types.EquipmentGains(nil), p.Internal.Equipment...)

	return calc.Snapshot{
		Windows:      windows,
		Room:         p.Room,
		Accumulation: p.Accumulation,
		Internal:     internal,
		Month:        p.Month,
	}
}

// ValidateWindow checks the fields a calculation cannot recover from
func ValidateWindow(w types.Window) error {
	if _, ok := types.DirectionAzimuth(w.Direction); !ok {
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidWindow, w.Direction)
	}
	if w.Width < 0 || w.Height < 0 {
		return fmt.Errorf("%w: negative dimensions", ErrInvalidWindow)
	}
	if w.SHGC < 0 || w.SHGC > 1 {
		return fmt.Errorf("%w: shgc %.2f outside 0-1", ErrInvalidWindow, w.SHGC.Float())
	}
	if w.Overhang != nil && (w.Overhang.Depth < 0 || w.Overhang.DistanceAbove < 0) {
		return fmt.Errorf("%w: negative overhang dimensions", ErrInvalidWindow)
	}
	return nil
}

// AddWindow appends w with the next free ID. A window without U and SHGC gets
// the preset values of its envelope type.
func (p *Project) AddWindow(w types.Window) (types.Window, error) {
	if w.Type == "" {
		w.Type = types.EnvelopeStandard
	}
	if w.U == 0 && w.SHGC == 0 {
		if preset, ok := types.WindowPresets[w.Type]; ok {
			w.U, w.SHGC = types.Number(preset.U), types.Number(preset.SHGC)
		}
	}
	if err := ValidateWindow(w); err != nil {
		return types.Window{}, err
	}

	w.ID = p.nextWindowID()
	p.Windows = append(p.Windows, w)
	return w, nil
}

// ReplaceWindows swaps the window list for windows, numbered 1..N in order
// with presets applied as in AddWindow. The list is left untouched on error.
func (p *Project) ReplaceWindows(windows []types.Window) error {
	next := &Project{Windows: make([]types.Window, 0, len(windows))}
	for _, w := range windows {
		if _, err := next.AddWindow(w); err != nil {
			return err
		}
	}
	p.Windows = next.Windows
	return nil
}

// UpdateWindow replaces the window with the same ID
func (p *Project) UpdateWindow(w types.Window) error {
	if err := ValidateWindow(w); err != nil {
		return err
	}
	i := p.windowIndex(w.ID)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, w.ID)
	}
	p.Windows[i] = w
	return nil
}

// DeleteWindow removes a window and renumbers the rest 1..N in order
func (p *Project) DeleteWindow(id int) error {
	i := p.windowIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	p.Windows = append(p.Windows[:i], p.Windows[i+1:]...)
	p.renumberWindows()
	return nil
}

// DuplicateWindow appends a copy of a window under the next free ID
func (p *Project) DuplicateWindow(id int) (types.Window, error) {
	i := p.windowIndex(id)
	if i < 0 {
		return types.Window{}, fmt.Errorf("%w: %d", ErrWindowNotFound, id)
	}
	w := copyWindow(p.Windows[i])
	w.ID = p.nextWindowID()
	p.Windows = append(p.Windows, w)
	return w, nil
}

func (p *Project) renumberWindows() {
	for i := range p.Windows {
		p.Windows[i].ID = i + 1
	}
}

// UpdateAllShading applies the same shading change to every window
func (p *Project) UpdateAllShading(patch types.ShadingPatch) {
	for i := range p.Windows {
		p.Windows[i].Shading = patch.Apply(p.Windows[i].Shading)
	}
}

// EquipmentRequest describes an item to add: a preset name, or a free name and power
type EquipmentRequest struct {
	Preset string       `json:"preset,omitempty"`
	Name   string       `json:"name,omitempty"`
	Power  types.Number `json:"power,omitempty"`
}

// AddEquipment appends an equipment item running office hours, or all day
// for always-on presets
func (p *Project) AddEquipment(req EquipmentRequest) types.EquipmentGains {
	item := types.EquipmentGains{
		ID:        p.nextEquipmentID(),
		Name:      defaultEquipmentName,
		Power:     defaultEquipmentPower,
		Quantity:  1,
		StartHour: officeStartHour,
		EndHour:   officeEndHour,
	}

	if preset, ok := types.EquipmentPresets[req.Preset]; ok {
		item.Name = preset.Label
		item.Power = types.Number(preset.Power)
		if preset.AlwaysOn {
			item.StartHour, item.EndHour = 0, 24
		}
	}
	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Power.Float() > 0 {
		item.Power = req.Power
	}

	p.Internal.Equipment = append(p.Internal.Equipment, item)
	return item
}

// DeleteEquipment removes an equipment item. Remaining IDs are not renumbered.
func (p *Project) DeleteEquipment(id int) error {
	for i, item := range p.Internal.Equipment {
		if item.ID == id {
			p.Internal.Equipment = append(p.Internal.Equipment[:i], p.Internal.Equipment[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrEquipmentNotFound, id)
}

func (p *Project) windowIndex(id int) int {
	for i, w := range p.Windows {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func (p *Project) nextWindowID() int {
	next := 1
	for _, w := range p.Windows {
		if w.ID >= next {
			next = w.ID + 1
		}
	}
	return next
}

func (p *Project) nextEquipmentID() int {
	next := 1
	for _, item := range p.Internal.Equipment {
		if item.ID >= next {
			next = item.ID + 1
		}
	}
	return next
}

func copyWindow(w types.Window) types.Window {
	if w.Overhang != nil {
		o := *w.Overhang
		w.Overhang = &o
	}
	return w
}
