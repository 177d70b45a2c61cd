package gains

import (
	"math"
	"testing"

	"github.com/chrissnell/coolingload/internal/climate"
	"github.com/chrissnell/coolingload/internal/shading"
	"github.com/chrissnell/coolingload/internal/types"
	"github.com/chrissnell/coolingload/pkg/psychro"
)

const epsilon = 1e-9

func conditions() types.Conditions {
	return types.DefaultRoomInput().Conditions()
}

func flat(v float64) types.Hourly {
	var h types.Hourly
	for i := range h {
		h[i] = v
	}
	return h
}

func TestInternalPeople(t *testing.T) {
	ig := types.DefaultInternalGains()
	ig.People.Enabled = true
	ig.People.Count = 2

	// July is UTC+2: 08-16 local is 06-14 UTC
	p := Internal(ig, conditions(), 7)
	activity := types.ActivityLevels[types.ActivitySeatedVeryLight]

	for h := 0; h < types.HoursPerDay; h++ {
		var wantRad, wantLat float64
		if h >= 6 && h < 14 {
			wantRad = 2 * activity.Sensible * activity.RadiantFraction
			wantLat = 2 * activity.Latent
		}
		if math.Abs(p.Radiant[h]-wantRad) > epsilon || math.Abs(p.Latent[h]-wantLat) > epsilon {
			t.Errorf("hour %d: radiant=%v latent=%v, expected %v/%v", h, p.Radiant[h], p.Latent[h], wantRad, wantLat)
		}
	}
}

func TestInternalPeopleWarmRoom(t *testing.T) {
	ig := types.DefaultInternalGains()
	ig.People.Enabled = true
	ig.People.Count = 1
	ig.People.StartHour, ig.People.EndHour = 0, 0

	cool := conditions()
	warm := cool
	warm.TInternal = 27

	pc := Internal(ig, cool, 1)
	pw := Internal(ig, warm, 1)

	// 70 W sensible / 45 W latent becomes 56 W / 59 W
	if s := pw.Sensible()[10]; math.Abs(s-56) > epsilon {
		t.Errorf("warm room sensible = %v, expected 56", s)
	}
	if l := pw.Latent[10]; math.Abs(l-59) > epsilon {
		t.Errorf("warm room latent = %v, expected 59", l)
	}
	if total := pc.Sensible()[10] + pc.Latent[10]; math.Abs(total-(pw.Sensible()[10]+pw.Latent[10])) > epsilon {
		t.Error("the shift should not change total heat")
	}
}

func TestInternalLightingAndEquipment(t *testing.T) {
	ig := types.DefaultInternalGains()
	ig.Lighting.Enabled = true
	ig.Lighting.PowerDensity = 10
	ig.Lighting.StartHour, ig.Lighting.EndHour = 20, 4
	ig.Equipment = []types.EquipmentGains{
		{ID: 1, Name: "PC", Power: 150, Quantity: 2, StartHour: 0, EndHour: 24},
	}

	cond := conditions()
	cond.RoomArea = 30
	// January is UTC+1: 20-04 local is 19-03 UTC
	p := Internal(ig, cond, 1)

	fixture := types.LightingTypes["led_troffer"]
	lightRad := 300 * fixture.RadiativeFraction
	lightConv := 300 * (1 - fixture.RadiativeFraction)

	tests := []struct {
		hour     int
		radiant  float64
		convect  float64
		lightsOn bool
	}{
		{18, 150, 150, false},
		{19, 150 + lightRad, 150 + lightConv, true},
		{2, 150 + lightRad, 150 + lightConv, true},
		{3, 150, 150, false},
	}
	for _, tt := range tests {
		if math.Abs(p.Radiant[tt.hour]-tt.radiant) > epsilon || math.Abs(p.Convective[tt.hour]-tt.convect) > epsilon {
			t.Errorf("hour %d: radiant=%v convective=%v, expected %v/%v (lights on: %v)",
				tt.hour, p.Radiant[tt.hour], p.Convective[tt.hour], tt.radiant, tt.convect, tt.lightsOn)
		}
	}
	if p.Latent.Sum() != 0 {
		t.Error("lighting and equipment should have no latent gain")
	}
}

func TestVentilation(t *testing.T) {
	cond := conditions()
	v := types.VentilationGains{Enabled: true, Airflow: 100, ExchangerType: types.ExchangerCounterflowERV}
	tExt := flat(34)

	p := Ventilation(v, cond, tExt)

	wantSensible := 0.342 * 100 * (34 - 24) * (1 - 0.80)
	wantLatent := 836.1 * 100 * (psychro.HumidityRatioDewPoint(15) - psychro.HumidityRatioRH(24, 0.5)) * (1 - 0.70)
	if math.Abs(p.Sensible[5]-wantSensible) > epsilon {
		t.Errorf("sensible = %v, expected %v", p.Sensible[5], wantSensible)
	}
	if math.Abs(p.Latent[5]-wantLatent) > epsilon {
		t.Errorf("latent = %v, expected %v", p.Latent[5], wantLatent)
	}
	if math.Abs(p.Total()[5]-(wantSensible+wantLatent)) > epsilon {
		t.Error("total should be sensible plus latent")
	}

	v.ExchangerType = "unknown"
	p = Ventilation(v, cond, tExt)
	if want := 0.342 * 100 * 10; math.Abs(p.Sensible[0]-want) > epsilon {
		t.Errorf("unknown exchanger sensible = %v, expected %v", p.Sensible[0], want)
	}

	v.Enabled = false
	if p := Ventilation(v, cond, tExt); p.Total().Sum() != 0 {
		t.Error("disabled ventilation should give no load")
	}
}

func testData() *climate.Data {
	var beam, total, incidence, altitude, relAz climate.Series
	for h := 0; h < types.HoursPerDay; h++ {
		b, g := 0.0, 0.0
		if h >= 8 && h <= 16 {
			b, g = 400, 550
		}
		beam = append(beam, b)
		total = append(total, g)
		incidence = append(incidence, 30)
		altitude = append(altitude, 45)
		relAz = append(relAz, 0)
	}

	typBeam := make(climate.Series, len(beam))
	typTotal := make(climate.Series, len(total))
	for h := range beam {
		typBeam[h] = beam[h] / 2
		typTotal[h] = total[h] / 2
	}

	return &climate.Data{
		Design: climate.Dataset{7: {Directions: map[string]climate.DirectionSeries{
			"S": {Beam: beam, Total: total, Incidence: incidence, Altitude: altitude, RelAzimuth: relAz},
		}}},
		Typical: climate.Dataset{7: {Directions: map[string]climate.DirectionSeries{
			"S": {Beam: typBeam, Total: typTotal},
		}}},
		Shading: shading.Table{types.EnvelopeStandard: {
			RollerShades: map[string]shading.Entry{"white_opaque": {IAC: shading.Float(0.4), FR: shading.Float(0.3)}},
		}},
	}
}

func TestAccumulateUnshaded(t *testing.T) {
	win := types.Window{Type: types.EnvelopeStandard, Direction: "S", U: 1.1, SHGC: 0.6, Width: 2, Height: 1.5}
	in := WindowInput{Windows: []types.Window{win}, TInternal: 24, TExternal: flat(30), Month: 7, Data: testData()}

	s := Accumulate(in, Design)

	// standard curve at 30° is 0.99, diffuse multiplier 0.88
	wantSolar := 400*0.6*0.99*3 + 150*0.6*0.88*3
	if math.Abs(s.SolarTotal[12]-wantSolar) > 1e-6 {
		t.Errorf("solar gain = %v, expected %v", s.SolarTotal[12], wantSolar)
	}
	if math.Abs(s.SolarRadiantSolar[12]-wantSolar) > 1e-6 || s.SolarConvective[12] != 0 {
		t.Error("unshaded solar gain should be fully radiant on the solar series")
	}

	wantCond := 1.1 * 3 * 6
	if math.Abs(s.ConductionTotal[3]-wantCond) > epsilon {
		t.Errorf("conduction = %v, expected %v", s.ConductionTotal[3], wantCond)
	}
	if math.Abs(s.ConductionRadiant[3]-wantCond*0.33) > epsilon {
		t.Errorf("conduction radiant = %v, expected %v", s.ConductionRadiant[3], wantCond*0.33)
	}

	typical := Accumulate(in, Typical)
	if math.Abs(typical.SolarTotal[12]-wantSolar/2) > 1e-6 {
		t.Errorf("typical solar gain = %v, expected %v", typical.SolarTotal[12], wantSolar/2)
	}
}

func TestAccumulateIndoorShading(t *testing.T) {
	win := types.Window{
		Type: types.EnvelopeStandard, Direction: "S", U: 1.1, SHGC: 0.5, Width: 1, Height: 1,
		Shading: types.Shading{Enabled: true, Type: types.ShadingRollerShades, Location: types.LocationIndoor, Setting: "white_opaque"},
	}
	in := WindowInput{Windows: []types.Window{win}, TInternal: 24, TExternal: flat(24), Month: 7, Data: testData()}

	s := Accumulate(in, Design)
	q := (400*0.5*0.99 + 150*0.5*0.88) * 0.4
	if math.Abs(s.SolarRadiantNonSolar[12]-q*0.3) > 1e-6 {
		t.Errorf("indoor radiant = %v, expected %v", s.SolarRadiantNonSolar[12], q*0.3)
	}
	if s.SolarRadiantSolar[12] != 0 {
		t.Error("indoor shading should move radiant gain to the non-solar series")
	}
	if math.Abs(s.SolarConvective[12]-q*0.7) > 1e-6 {
		t.Errorf("convective = %v, expected %v", s.SolarConvective[12], q*0.7)
	}

	in.WithoutShading = true
	off := Accumulate(in, Design)
	if off.SolarRadiantNonSolar.Sum() != 0 || off.SolarTotal[12] <= s.SolarTotal[12] {
		t.Error("forcing shading off should restore the unshaded gain")
	}
}

func TestAccumulateOverhangReducesBeamOnly(t *testing.T) {
	win := types.Window{
		Type: types.EnvelopeCustom, Direction: "S", SHGC: 0.5, Width: 1, Height: 1,
		Overhang: &types.Overhang{Enabled: true, Depth: 2},
	}
	in := WindowInput{Windows: []types.Window{win}, TExternal: flat(0), Month: 7, Data: testData()}

	// at 45° altitude a 2 m overhang shades the whole 1 m window
	s := Accumulate(in, Design)
	if want := 150 * 0.5; math.Abs(s.SolarTotal[12]-want) > 1e-6 {
		t.Errorf("fully shaded gain = %v, expected diffuse only %v", s.SolarTotal[12], want)
	}
}

func TestAccumulateMissingDirection(t *testing.T) {
	win := types.Window{Type: types.EnvelopeStandard, Direction: "NNW", U: 2, SHGC: 0.6, Width: 1, Height: 1}
	in := WindowInput{Windows: []types.Window{win}, TInternal: 24, TExternal: flat(30), Month: 7, Data: testData()}

	s := Accumulate(in, Design)
	if s.SolarTotal.Sum() != 0 {
		t.Error("a window without irradiance data should get no solar gain")
	}
	if math.Abs(s.ConductionTotal[0]-12) > epsilon {
		t.Errorf("conduction = %v, expected 12", s.ConductionTotal[0])
	}
}

func TestIncidentPower(t *testing.T) {
	windows := []types.Window{
		{Direction: "S", Width: 1, Height: 2},
		{Direction: "N", Width: 5, Height: 5},
	}
	p := IncidentPower(windows, testData().Design, 7)
	if math.Abs(p[12]-1100) > epsilon || p[0] != 0 {
		t.Errorf("IncidentPower() = %v", p)
	}
}

func TestConductionRadiantFraction(t *testing.T) {
	if ConductionRadiantFraction(0.55) != 0.46 || ConductionRadiantFraction(0.56) != 0.33 {
		t.Error("conduction radiant fraction should switch above SHGC 0.55")
	}
}
