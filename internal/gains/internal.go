// Package gains computes the instantaneous hourly heat gains of a room before
// they are turned into cooling loads. Every profile is indexed by UTC hour.
package gains

import (
	"github.com/chrissnell/coolingload/internal/schedule"
	"github.com/chrissnell/coolingload/internal/types"
)

const (
	// Above this room temperature occupants shed part of their sensible heat as latent
	latentShiftTemp     = 27.0
	latentShiftFraction = 0.20

	equipmentRadiantFraction = 0.5
)

// InternalProfile is the hourly gain of people, lighting and equipment
type InternalProfile struct {
	Radiant    types.Hourly
	Convective types.Hourly
	Latent     types.Hourly
}

// Sensible returns radiant plus convective gain
func (p InternalProfile) Sensible() types.Hourly {
	return p.Radiant.Plus(p.Convective)
}

// Internal computes the whole-room internal gains for a month. Schedules are
// given in local time and shifted to UTC.
func Internal(ig types.InternalGains, cond types.Conditions, month int) InternalProfile {
	var p InternalProfile

	if ig.People.Enabled {
		p.addPeople(ig.People, cond.TInternal, month)
	}
	if ig.Lighting.Enabled && cond.RoomArea > 0 {
		p.addLighting(ig.Lighting, cond.RoomArea, month)
	}
	for _, item := range ig.Equipment {
		p.addEquipment(item, month)
	}
	return p
}

func (p *InternalProfile) addPeople(people types.PeopleGains, tInternal float64, month int) {
	activity, ok := types.ActivityLevels[people.ActivityLevel]
	if !ok {
		return
	}

	count := people.Count.Float()
	sensible, latent := activity.Sensible, activity.Latent
	if tInternal >= latentShiftTemp {
		shift := sensible * latentShiftFraction
		sensible -= shift
		latent += shift
	}

	active := schedule.Window{Start: people.StartHour.Int(), End: people.EndHour.Int()}.ActiveUTC(month)
	for h, on := range active {
		if !on {
			continue
		}
		p.Radiant[h] += count * sensible * activity.RadiantFraction
		p.Convective[h] += count * sensible * (1 - activity.RadiantFraction)
		p.Latent[h] += count * latent
	}
}

func (p *InternalProfile) addLighting(lighting types.LightingGains, roomArea float64, month int) {
	fixture, ok := types.LightingTypes[lighting.Type]
	if !ok {
		return
	}

	heat := lighting.PowerDensity.Float() * roomArea * fixture.SpaceFraction
	active := schedule.Window{Start: lighting.StartHour.Int(), End: lighting.EndHour.Int()}.ActiveUTC(month)
	for h, on := range active {
		if !on {
			continue
		}
		p.Radiant[h] += heat * fixture.RadiativeFraction
		p.Convective[h] += heat * (1 - fixture.RadiativeFraction)
	}
}

func (p *InternalProfile) addEquipment(item types.EquipmentGains, month int) {
	power := item.Power.Float() * item.Quantity.Float()
	active := schedule.Window{Start: item.StartHour.Int(), End: item.EndHour.Int()}.ActiveUTC(month)
	for h, on := range active {
		if !on {
			continue
		}
		p.Radiant[h] += power * equipmentRadiantFraction
		p.Convective[h] += power * (1 - equipmentRadiantFraction)
	}
}
