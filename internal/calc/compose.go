package calc

import (
	"github.com/chrissnell/coolingload/internal/climate"
	"github.com/chrissnell/coolingload/internal/gains"
	"github.com/chrissnell/coolingload/internal/types"
	"github.com/chrissnell/coolingload/pkg/rts"
)

// convolver applies the room's two decay series
type convolver struct {
	include  bool
	solar    rts.Series
	nonSolar rts.Series
}

func (c convolver) solarLoad(h types.Hourly) types.Hourly {
	return types.Hourly(rts.Convolve(c.include, rts.Series(h), c.solar))
}

func (c convolver) nonSolarLoad(h types.Hourly) types.Hourly {
	return types.Hourly(rts.Convolve(c.include, rts.Series(h), c.nonSolar))
}

func (e *Engine) convolver(acc types.AccumulationSettings, table rts.Table) convolver {
	solar, fellBack := table.Series(string(acc.ThermalMass), string(acc.FloorType), acc.GlassPercentage.Float(), rts.Solar)
	if fellBack {
		e.logger.Debugf("no solar rts series for %s/%s/%s; using fallback", acc.ThermalMass, acc.FloorType, rts.BucketKey(acc.GlassPercentage.Float()))
	}
	nonSolar, fellBack := table.Series(string(acc.ThermalMass), string(acc.FloorType), acc.GlassPercentage.Float(), rts.NonSolar)
	if fellBack {
		e.logger.Debugf("no nonsolar rts series for %s/%s/%s; using fallback", acc.ThermalMass, acc.FloorType, rts.BucketKey(acc.GlassPercentage.Float()))
	}
	return convolver{include: acc.Include, solar: solar, nonSolar: nonSolar}
}

// Calculate computes the cooling loads of one month for both irradiance
// scenarios, given the hourly outdoor temperature
func (e *Engine) Calculate(s Snapshot, data *climate.Data, month int, tExt types.Hourly, withoutShading bool) types.Results {
	cond := s.Room.Conditions()
	conv := e.convolver(s.Accumulation, data.RTS)

	for _, win := range s.Windows {
		if _, ok := data.Design.Direction(month, win.Direction); !ok {
			e.logger.Debugf("window %d: no irradiance data for %s in month %d; conduction only", win.ID, win.Direction, month)
		}
	}

	internal := gains.Internal(s.Internal, cond, month)
	vent := gains.Ventilation(s.Internal.Ventilation, cond, tExt)
	internalSensible := conv.nonSolarLoad(internal.Radiant).Plus(internal.Convective)

	in := gains.WindowInput{
		Windows:        s.Windows,
		TInternal:      cond.TInternal,
		TExternal:      tExt,
		Month:          month,
		Data:           data,
		WithoutShading: withoutShading,
	}
	design := gains.Accumulate(in, gains.Design)
	typical := gains.Accumulate(in, gains.Typical)

	scenario := func(w gains.WindowStreams) types.ScenarioResult {
		c := types.LoadComponents{
			Solar: conv.solarLoad(w.SolarRadiantSolar).
				Plus(conv.nonSolarLoad(w.SolarRadiantNonSolar), w.SolarConvective),
			Conduction:          conv.nonSolarLoad(w.ConductionRadiant).Plus(w.ConductionConvective),
			InternalSensible:    internalSensible,
			VentilationSensible: vent.Sensible,
			Latent:              internal.Latent.Plus(vent.Latent),
		}
		sensible := c.Solar.Plus(c.Conduction, c.InternalSensible, c.VentilationSensible)
		windows := c.Solar.Plus(c.Conduction)
		return types.ScenarioResult{
			Final:      types.NewLoadSeries(sensible, c.Latent),
			Windows:    types.NewLoadSeries(windows, types.Hourly{}),
			Components: c,
		}
	}

	return types.Results{
		Month:             month,
		Design:            scenario(design),
		Typical:           scenario(typical),
		InternalGainsLoad: types.NewLoadSeries(internalSensible, internal.Latent),
		VentilationLoad:   types.LoadSeries{Sensible: vent.Sensible, Latent: vent.Latent, Total: vent.Total()},
		Components: types.GainComponents{
			SolarTypical:         typical.SolarTotal,
			SolarDesign:          design.SolarTotal,
			ConductionRadiant:    design.ConductionRadiant,
			ConductionConvective: design.ConductionConvective,
			InternalRadiant:      internal.Radiant,
			InternalConvective:   internal.Convective,
			InternalLatent:       internal.Latent,
		},
		IncidentSolarPower: gains.IncidentPower(s.Windows, data.Design, month),
	}
}
