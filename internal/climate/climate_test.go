package climate

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chrissnell/coolingload/internal/shading"
	"github.com/chrissnell/coolingload/internal/types"
	"github.com/chrissnell/coolingload/pkg/rts"
)

func TestSeriesUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Series
	}{
		{"array", `[1, 2.5, 3]`, Series{1, 2.5, 3}},
		{"string holding an array", `"[4, 5]"`, Series{4, 5}},
		{"null elements become zero", `[1, null, 2]`, Series{1, 0, 2}},
		{"garbage string", `"not json"`, nil},
		{"object", `{"a": 1}`, nil},
		{"null", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Series
			require.NoError(t, json.Unmarshal([]byte(tt.input), &s))
			assert.Equal(t, tt.expected, s)
		})
	}
}

func TestSeriesAccess(t *testing.T) {
	s := Series{1, 2}
	assert.Equal(t, 2.0, s.At(1))
	assert.Equal(t, 0.0, s.At(5))
	_, ok := s.Get(-1)
	assert.False(t, ok)
	assert.False(t, s.Valid())
	assert.Equal(t, 2.0, s.Hourly()[1])
}

const designJSON = `{
	"6": {
		"S": {"Gb": "[0, 100, 200]", "Gcs": [0, 150, 260], "theta": [95, 60, 40], "solar_altitude": [-5, 20, 50], "gamma": [10, 20, 30]},
		"E": {"Gb": [0, 1], "Gcs": [0, 2], "omega": [-40, -35]},
		"bad": "oops"
	},
	"13": {"S": {"Gb": [1]}},
	"x": {}
}`

const typicalJSON = `{
	"7": {
		"T2m": "[18, 19, 20]",
		"S": {"Gb": [0, 80], "G": [0, 120]}
	}
}`

func TestDecodeDesign(t *testing.T) {
	ds, err := DecodeDesign(strings.NewReader(designJSON))
	require.NoError(t, err)
	require.Equal(t, 1, ds.Months(), "months outside 1-12 are skipped")

	south, ok := ds.Direction(6, "S")
	require.True(t, ok)
	assert.Equal(t, Series{0, 100, 200}, south.Beam)
	assert.Equal(t, Series{0, 150, 260}, south.Total)
	assert.InDelta(t, 60.0, south.Diffuse(2), 1e-9)

	sun := south.Angles(1)
	assert.Equal(t, types.SunAngles{Incidence: 60, HasIncidence: true, Altitude: 20, RelAzimuth: 20}, sun)
	assert.False(t, south.Angles(7).HasIncidence)

	east, ok := ds.Direction(6, "E")
	require.True(t, ok)
	assert.Equal(t, -35.0, east.Angles(1).RelAzimuth, "omega stands in for a missing gamma")

	_, ok = ds.Direction(6, "bad")
	assert.False(t, ok)
	_, ok = ds.Direction(7, "S")
	assert.False(t, ok)
}

func TestDecodeTypical(t *testing.T) {
	ds, err := DecodeTypical(strings.NewReader(typicalJSON))
	require.NoError(t, err)

	assert.Equal(t, Series{18, 19, 20}, ds.T2m(7))
	assert.Empty(t, ds.T2m(1))

	south, ok := ds.Direction(7, "S")
	require.True(t, ok)
	assert.Equal(t, Series{0, 120}, south.Total)
	_, ok = ds.Direction(7, "T2m")
	assert.False(t, ok)
}

func TestDecodeRejectsInvalidDocument(t *testing.T) {
	_, err := DecodeDesign(strings.NewReader(`[1, 2]`))
	assert.Error(t, err)
}

func sampleData() *Data {
	design := Dataset{6: {Directions: map[string]DirectionSeries{
		"S": {Beam: Series{0, 100}, Total: Series{0, 150}, Incidence: Series{90, 45}, Altitude: Series{0, 30}, RelAzimuth: Series{0, 5}},
	}}}
	typical := Dataset{6: {T2m: Series{20, 21}, Directions: map[string]DirectionSeries{
		"S": {Beam: Series{0, 80}, Total: Series{0, 120}},
	}}}
	e := rts.Exponential(0.5)
	return &Data{
		Design:  design,
		Typical: typical,
		RTS: rts.Table{"medium": {"panels": {"50": {Solar: e[:], NonSolar: e[:]}}}},
		Shading: shading.Table{types.EnvelopeStandard: {
			RollerShades: map[string]shading.Entry{"white_opaque": {IAC: shading.Float(0.4), FR: shading.Float(0.3)}},
		}},
	}
}

func TestWriteAndLoadDir(t *testing.T) {
	dir := t.TempDir()
	files := DefaultFileNames()
	want := sampleData()
	require.NoError(t, WriteDir(dir, files, want))

	loader := NewDirLoader(dir, zap.NewNop().Sugar())
	got, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, want.Design, got.Design)
	assert.Equal(t, want.Typical, got.Typical)
	assert.Equal(t, want.RTS, got.RTS)
	assert.Equal(t, want.Shading, got.Shading)
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDir(dir, DefaultFileNames(), sampleData()))
	require.NoError(t, os.Remove(filepath.Join(dir, DefaultShadingFile)))

	_, err := NewDirLoader(dir, nil).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

type loaderFunc func(ctx context.Context) (*Data, error)

func (f loaderFunc) Load(ctx context.Context) (*Data, error) { return f(ctx) }

func TestStoreLifecycle(t *testing.T) {
	store := NewStore(zap.NewNop().Sugar())
	assert.Equal(t, StateLoading, store.State())
	_, err := store.Data()
	assert.ErrorIs(t, err, ErrNotReady)

	release := make(chan struct{})
	d := sampleData()
	done := store.LoadAsync(context.Background(), loaderFunc(func(ctx context.Context) (*Data, error) {
		<-release
		return d, nil
	}))

	_, err = store.Data()
	assert.ErrorIs(t, err, ErrNotReady)

	close(release)
	<-done

	got, err := store.Data()
	require.NoError(t, err)
	assert.Same(t, d, got)
	assert.Equal(t, "ready", store.State().String())
}

func TestStoreUnavailable(t *testing.T) {
	cause := errors.New("disk on fire")
	store := NewStore(zap.NewNop().Sugar())

	err := store.Load(context.Background(), loaderFunc(func(ctx context.Context) (*Data, error) {
		return nil, cause
	}))
	require.Error(t, err)

	_, err = store.Data()
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, StateUnavailable, store.State())
}

func TestStaticStore(t *testing.T) {
	d := sampleData()
	got, err := NewStaticStore(d).Data()
	require.NoError(t, err)
	assert.Same(t, d, got)
}
