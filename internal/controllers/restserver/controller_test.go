package restserver

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/chrissnell/coolingload/internal/calc"
	"github.com/chrissnell/coolingload/internal/climate"
	"github.com/chrissnell/coolingload/internal/metrics"
	"github.com/chrissnell/coolingload/internal/project"
	"github.com/chrissnell/coolingload/internal/types"
	"github.com/chrissnell/coolingload/pkg/config"
	"github.com/chrissnell/coolingload/pkg/rts"
)

type recordingPublisher struct {
	mu       sync.Mutex
	projects []string
}

func (p *recordingPublisher) PublishSummary(project string, s calc.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.projects = append(p.projects, project)
}

func daySeries(peak float64) climate.Series {
	s := make(climate.Series, types.HoursPerDay)
	for h := 6; h <= 18; h++ {
		s[h] = peak * math.Sin(math.Pi*float64(h-6)/12)
	}
	return s
}

func constantSeries(v float64) climate.Series {
	s := make(climate.Series, types.HoursPerDay)
	for h := range s {
		s[h] = v
	}
	return s
}

// testClimate has south-facing data for months 4-9 with beam peaking in June
func testClimate() *climate.Data {
	design := climate.Dataset{}
	typical := climate.Dataset{}
	for month, peak := range map[int]float64{4: 300, 5: 380, 6: 450, 7: 420, 8: 360, 9: 280} {
		design[month] = climate.Month{Directions: map[string]climate.DirectionSeries{
			"S": {
				Beam:       daySeries(peak),
				Total:      daySeries(peak + 150),
				Incidence:  constantSeries(40),
				Altitude:   constantSeries(50),
				RelAzimuth: constantSeries(10),
			},
		}}
		t2m := make(climate.Series, types.HoursPerDay)
		for h := range t2m {
			t2m[h] = 15 + 8*math.Sin(math.Pi*float64(h)/23)
		}
		typical[month] = climate.Month{
			T2m:        t2m,
			Directions: map[string]climate.DirectionSeries{"S": {Beam: daySeries(peak * 0.6), Total: daySeries(peak*0.6 + 120)}},
		}
	}
	solar := rts.Exponential(0.4)
	nonSolar := rts.Exponential(0.7)
	return &climate.Data{
		Design:  design,
		Typical: typical,
		RTS:     rts.Table{"medium": {"panels": {"50": {Solar: solar[:], NonSolar: nonSolar[:]}}}},
	}
}

type testServer struct {
	ctrl      *Controller
	publisher *recordingPublisher
	projects  *project.SQLStore
}

func newTestServer(t *testing.T, store *climate.Store, rc config.RESTServerData) *testServer {
	t.Helper()
	logger := zap.NewNop().Sugar()

	projects, err := project.OpenSQLStore(context.Background(), project.DriverSQLite, filepath.Join(t.TempDir(), "api.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { projects.Close() })

	pub := &recordingPublisher{}
	ctrl, err := NewController(context.Background(), &sync.WaitGroup{}, rc, Dependencies{
		Climate:   store,
		Projects:  projects,
		Metrics:   metrics.New(prometheus.NewRegistry()),
		Publisher: pub,
	}, logger)
	require.NoError(t, err)
	return &testServer{ctrl: ctrl, publisher: pub, projects: projects}
}

func newReadyServer(t *testing.T) *testServer {
	return newTestServer(t, climate.NewStaticStore(testClimate()), config.RESTServerData{EnableMetrics: true})
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "192.0.2.10:41000"
	rec := httptest.NewRecorder()
	s.ctrl.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func southWindow() types.Window {
	return types.Window{Type: types.EnvelopeStandard, Direction: "S", Width: 2, Height: 1.5}
}

// southGlazing is a complete window, as the worst-month search sees it
func southGlazing() types.Window {
	return types.Window{ID: 1, Type: types.EnvelopeStandard, Direction: "S", U: 1.1, SHGC: 0.6, Width: 2, Height: 1.5}
}

func TestNewControllerRequiresStores(t *testing.T) {
	_, err := NewController(context.Background(), &sync.WaitGroup{}, config.RESTServerData{}, Dependencies{}, zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestNewControllerDefaults(t *testing.T) {
	s := newReadyServer(t)
	assert.Equal(t, "0.0.0.0:8080", s.ctrl.Server.Addr)
	assert.Nil(t, s.ctrl.limiter)
}

func TestHealth(t *testing.T) {
	loading := newTestServer(t, climate.NewStore(zap.NewNop().Sugar()), config.RESTServerData{})
	rec := loading.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "loading", body["climate"])
	assert.Equal(t, "degraded", body["status"])

	ready := newReadyServer(t)
	rec = ready.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decodeBody[map[string]string](t, rec)["climate"])
}

func TestCalculate(t *testing.T) {
	s := newReadyServer(t)
	snapshot := calc.Snapshot{
		Windows:      []types.Window{southGlazing()},
		Room:         types.DefaultRoomInput(),
		Accumulation: types.DefaultAccumulation(),
		Internal:     types.DefaultInternalGains(),
	}

	rec := s.do(t, http.MethodPost, "/api/v1/calculate", snapshot)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	run := decodeBody[calc.Run](t, rec)
	assert.Equal(t, 6, run.Month)
	assert.True(t, run.WorstMonth)
	assert.Greater(t, run.Summary.PeakTotal, 0.0)
	assert.Equal(t, []string{""}, s.publisher.projects)

	rec = s.do(t, http.MethodPost, "/api/v1/calculate?month=8", snapshot)
	require.Equal(t, http.StatusOK, rec.Code)
	run = decodeBody[calc.Run](t, rec)
	assert.Equal(t, 8, run.Month)
	assert.False(t, run.WorstMonth)
}

func TestCalculateErrors(t *testing.T) {
	s := newReadyServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/calculate?month=13", calc.Snapshot{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculate", bytes.NewBufferString("{not json"))
	rec = httptest.NewRecorder()
	s.ctrl.Server.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	loading := newTestServer(t, climate.NewStore(zap.NewNop().Sugar()), config.RESTServerData{})
	rec = loading.do(t, http.MethodPost, "/api/v1/calculate", calc.Snapshot{})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, loading.publisher.projects)
}

func TestWorstMonthAndTemperatureProfile(t *testing.T) {
	s := newReadyServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/worst-month", map[string]any{"windows": []types.Window{southGlazing()}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, decodeBody[map[string]int](t, rec)["month"])

	rec = s.do(t, http.MethodPost, "/api/v1/temperature-profile", map[string]any{"tExternal": 32, "month": 7})
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeBody[temperatureProfileResponse](t, rec)
	peak, _ := profile.Profile.Peak()
	assert.InDelta(t, 32.0, peak, 1e-9)

	rec = s.do(t, http.MethodPost, "/api/v1/temperature-profile", map[string]any{"tExternal": 32})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectLifecycle(t *testing.T) {
	s := newReadyServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/projects", map[string]any{"input": map[string]any{"projectName": "Office"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decodeBody[project.Project](t, rec)
	require.NotEmpty(t, p.ID)
	assert.Equal(t, "Office", p.Name())
	assert.Equal(t, types.DefaultAccumulation(), p.Accumulation)
	base := "/api/v1/projects/" + p.ID

	for i := 0; i < 2; i++ {
		rec = s.do(t, http.MethodPost, base+"/windows", southWindow())
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		win := decodeBody[types.Window](t, rec)
		assert.Equal(t, i+1, win.ID)
		assert.Equal(t, 0.6, win.SHGC.Float())
	}

	rec = s.do(t, http.MethodPost, base+"/windows/1/duplicate", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 3, decodeBody[types.Window](t, rec).ID)

	update := southWindow()
	update.Direction = "W"
	update.SHGC = 0.4
	rec = s.do(t, http.MethodPut, base+"/windows/2", update)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeBody[types.Window](t, rec).ID)

	rec = s.do(t, http.MethodDelete, base+"/windows/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	windows := decodeBody[[]types.Window](t, rec)
	require.Len(t, windows, 2)
	assert.Equal(t, 1, windows[0].ID)
	assert.Equal(t, "W", windows[0].Direction)
	assert.Equal(t, 2, windows[1].ID)

	rec = s.do(t, http.MethodPut, base+"/shading", map[string]any{"enabled": true, "type": "roller_shades", "location": "indoor"})
	require.Equal(t, http.StatusOK, rec.Code)
	for _, w := range decodeBody[[]types.Window](t, rec) {
		assert.True(t, w.Shading.Enabled)
		assert.Equal(t, types.ShadingRollerShades, w.Shading.Type)
	}

	rec = s.do(t, http.MethodPost, base+"/equipment", map[string]any{"preset": "fridge"})
	require.Equal(t, http.StatusCreated, rec.Code)
	item := decodeBody[types.EquipmentGains](t, rec)
	assert.Equal(t, 0, item.StartHour.Int())
	assert.Equal(t, 24, item.EndHour.Int())

	rec = s.do(t, http.MethodDelete, base+"/equipment/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodDelete, base+"/equipment/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]types.EquipmentGains](t, rec))

	rec = s.do(t, http.MethodPost, base+"/calculate?month=7", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	run := decodeBody[calc.Run](t, rec)
	assert.Equal(t, 7, run.Month)
	assert.True(t, run.Summary.ShadingEnabled)
	assert.Equal(t, []string{p.ID}, s.publisher.projects)

	rec = s.do(t, http.MethodGet, "/api/v1/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeBody[[]project.ListItem](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "Office", items[0].Name)

	rec = s.do(t, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[project.Project](t, rec).Windows)

	rec = s.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProjectKeepsIdentity(t *testing.T) {
	s := newReadyServer(t)
	rec := s.do(t, http.MethodPost, "/api/v1/projects", map[string]any{"windows": []types.Window{southWindow()}})
	require.Equal(t, http.StatusCreated, rec.Code)
	p := decodeBody[project.Project](t, rec)

	rec = s.do(t, http.MethodPut, "/api/v1/projects/"+p.ID, map[string]any{
		"id":    "something-else",
		"input": map[string]any{"projectName": "Renamed", "tExternal": "33"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[project.Project](t, rec)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, "Renamed", updated.Name())
	assert.Equal(t, 33.0, updated.Room.TExternal.Float())
	assert.Len(t, updated.Windows, 1)

	rec = s.do(t, http.MethodPut, "/api/v1/projects/"+p.ID, map[string]any{
		"windows": []types.Window{{Direction: "UP"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProjectRenumbersWindows(t *testing.T) {
	s := newReadyServer(t)
	rec := s.do(t, http.MethodPost, "/api/v1/projects", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/api/v1/projects/" + decodeBody[project.Project](t, rec).ID

	first, second := southGlazing(), southGlazing()
	first.ID, second.ID = 5, 5
	second.Direction = "E"
	rec = s.do(t, http.MethodPut, base, map[string]any{"windows": []types.Window{first, second}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[project.Project](t, rec)
	require.Len(t, updated.Windows, 2)
	assert.Equal(t, 1, updated.Windows[0].ID)
	assert.Equal(t, 2, updated.Windows[1].ID)

	rec = s.do(t, http.MethodDelete, base+"/windows/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	windows := decodeBody[[]types.Window](t, rec)
	require.Len(t, windows, 1)
	assert.Equal(t, "S", windows[0].Direction)
}

func TestCalculateAcceptsBlankFormFields(t *testing.T) {
	s := newReadyServer(t)
	body := map[string]any{
		"windows": []map[string]any{{
			"id": 1, "type": "standard", "direction": "S",
			"u": "1.1", "shgc": nil, "width": "", "height": "1.5",
			"overhang": map[string]any{"enabled": true, "depth": "", "distanceAbove": nil},
		}},
		"accumulation":  map[string]any{"include": true, "thermalMass": "heavy", "floorType": "panels", "glassPercentage": ""},
		"internalGains": map[string]any{"people": map[string]any{"enabled": true, "count": "2", "startHour": "", "endHour": "17"}},
	}

	rec := s.do(t, http.MethodPost, "/api/v1/calculate?month=7", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	run := decodeBody[calc.Run](t, rec)
	assert.Equal(t, 7, run.Month)
}

func TestWindowErrors(t *testing.T) {
	s := newReadyServer(t)
	rec := s.do(t, http.MethodPost, "/api/v1/projects", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/api/v1/projects/" + decodeBody[project.Project](t, rec).ID

	rec = s.do(t, http.MethodPost, base+"/windows", types.Window{Direction: "XYZ", Width: 1, Height: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, base+"/windows/4", southWindow())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/projects/missing/windows", southWindow())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImportWindows(t *testing.T) {
	s := newReadyServer(t)
	rec := s.do(t, http.MethodPost, "/api/v1/projects", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/api/v1/projects/" + decodeBody[project.Project](t, rec).ID

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"direction", "width", "height", "type"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"S", 2, 1.5, "historic"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"E", 1, 1, ""}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	req := httptest.NewRequest(http.MethodPost, base+"/windows/import", &buf)
	req.Header.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	rec = httptest.NewRecorder()
	s.ctrl.Server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	added := decodeBody[[]types.Window](t, rec)
	require.Len(t, added, 2)
	assert.Equal(t, 4.8, added[0].U.Float())
	assert.Equal(t, types.EnvelopeStandard, added[1].Type)
	assert.Equal(t, 2, added[1].ID)

	req = httptest.NewRequest(http.MethodPost, base+"/windows/import", bytes.NewBufferString("garbage"))
	rec = httptest.NewRecorder()
	s.ctrl.Server.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReports(t *testing.T) {
	s := newReadyServer(t)
	s.ctrl.handlers.now = func() time.Time { return time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC) }

	rec := s.do(t, http.MethodPost, "/api/v1/projects", map[string]any{"windows": []types.Window{southWindow()}})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody[project.Project](t, rec).ID

	rec = s.do(t, http.MethodGet, "/api/v1/projects/"+id+"/report.pdf?month=7", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), id+".pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = s.do(t, http.MethodGet, "/api/v1/projects/"+id+"/report.xlsx?shading=off", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Summary", "B5")
	require.NoError(t, err)
	assert.Equal(t, "FALSE", v)

	assert.Empty(t, s.publisher.projects)

	rec = s.do(t, http.MethodGet, "/api/v1/projects/"+id+"/report.pdf?month=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMsgPackAndCORS(t *testing.T) {
	s := newReadyServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/presets?format=msgpack", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-msgpack", rec.Header().Get("Content-Type"))

	rec = s.do(t, http.MethodOptions, "/api/v1/calculate", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newReadyServer(t)
	rec := s.do(t, http.MethodPost, "/api/v1/worst-month", map[string]any{"windows": []types.Window{}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, decodeBody[map[string]int](t, rec)["month"])

	rec = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `coolingload_http_requests_total{route="worst_month",status="200"} 1`)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, climate.NewStaticStore(testClimate()), config.RESTServerData{RateLimit: 0.001, RateBurst: 2})

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/presets", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/presets", nil).Code)
	rec := s.do(t, http.MethodGet, "/api/v1/presets", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, float64(http.StatusTooManyRequests), decodeBody[map[string]any](t, rec)["status"])
}

func TestRateLimiterSweep(t *testing.T) {
	l := newIPRateLimiter(1, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))
	now = now.Add(2 * time.Minute)
	assert.True(t, l.allow("b"))

	now = now.Add(clientIdleTimeout - time.Minute)
	l.sweep()
	assert.NotContains(t, l.clients, "a")
	assert.Contains(t, l.clients, "b")
}
