package gains

import (
	"github.com/chrissnell/coolingload/internal/types"
	"github.com/chrissnell/coolingload/pkg/psychro"
)

// Air property constants for airflow in m³/h, giving W
const (
	sensibleAirFactor = 0.342 // ρ·cp / 3600
	latentAirFactor   = 836.1 // ρ·h_fg / 3600
)

// VentilationProfile is the hourly load of mechanical supply air. It acts on
// the room immediately and is never delayed by RTS.
type VentilationProfile struct {
	Sensible types.Hourly
	Latent   types.Hourly
}

// Total returns sensible plus latent load
func (v VentilationProfile) Total() types.Hourly {
	return v.Sensible.Plus(v.Latent)
}

// Ventilation computes the supply air load after heat recovery. An unknown
// exchanger type recovers nothing.
func Ventilation(v types.VentilationGains, cond types.Conditions, tExt types.Hourly) VentilationProfile {
	var p VentilationProfile
	if !v.Enabled {
		return p
	}

	airflow := v.Airflow.Float()
	exchanger := types.Exchangers[v.ExchangerType]

	wInternal := psychro.HumidityRatioRH(cond.TInternal, cond.RHInternal)
	wExternal := psychro.HumidityRatioDewPoint(cond.TDewPoint)
	latent := latentAirFactor * airflow * (wExternal - wInternal) * (1 - exchanger.Latent)

	for h := range p.Sensible {
		p.Sensible[h] = sensibleAirFactor * airflow * (tExt[h] - cond.TInternal) * (1 - exchanger.Sensible)
		p.Latent[h] = latent
	}
	return p
}
