package restserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/chrissnell/coolingload/internal/calc"
	"github.com/chrissnell/coolingload/internal/climate"
	"github.com/chrissnell/coolingload/internal/constants"
	"github.com/chrissnell/coolingload/internal/project"
	"github.com/chrissnell/coolingload/internal/report"
	"github.com/chrissnell/coolingload/internal/types"
	"github.com/chrissnell/coolingload/pkg/responseformat"
)

var errBadRequest = errors.New("bad request")

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
	// mu serialises read-modify-write cycles on stored projects
	mu  sync.Mutex
	now func() time.Time
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
		now:        time.Now,
	}
}

func (h *Handlers) respond(w http.ResponseWriter, req *http.Request, status int, data any) {
	if err := h.formatter.WriteResponse(w, req, status, data); err != nil {
		h.controller.logger.Errorf("error writing response for %s: %v", req.URL.Path, err)
	}
}

func (h *Handlers) sendError(w http.ResponseWriter, req *http.Request, status int, message string, err error) {
	if werr := h.formatter.WriteError(w, req, status, message, err); werr != nil {
		h.controller.logger.Errorf("error writing error response for %s: %v", req.URL.Path, werr)
	}
}

// sendFailure maps err to a status code and writes it
func (h *Handlers) sendFailure(w http.ResponseWriter, req *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		h.controller.logger.Errorf("%s %s failed: %v", req.Method, req.URL.Path, err)
		h.sendError(w, req, status, "internal server error", err)
		return
	}
	h.sendError(w, req, status, err.Error(), nil)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, climate.ErrNotReady), errors.Is(err, climate.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, project.ErrNotFound),
		errors.Is(err, project.ErrWindowNotFound),
		errors.Is(err, project.ErrEquipmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, calc.ErrInvalidMonth),
		errors.Is(err, project.ErrInvalidWindow),
		errors.Is(err, report.ErrInvalidSheet),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decode reads the request body into v. An empty body is an error unless
// allowEmpty is set.
func (h *Handlers) decode(w http.ResponseWriter, req *http.Request, v any, allowEmpty bool) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
	err := responseformat.Decode(req, v)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

func pathInt(req *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(mux.Vars(req)[name])
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", errBadRequest, name)
	}
	return v, nil
}

// calculate runs a calculation against the current climate data
func (h *Handlers) calculate(s calc.Snapshot, projectID string, publish bool) (calc.Run, error) {
	deps := h.controller.deps
	data, err := deps.Climate.Data()
	if err != nil {
		return calc.Run{}, err
	}

	start := time.Now()
	run, err := deps.Engine.Run(s, data)
	if err != nil {
		return calc.Run{}, err
	}
	deps.Metrics.Calculation(run.WorstMonth, time.Since(start), run.Summary.PeakTotal)

	if publish && deps.Publisher != nil {
		deps.Publisher.PublishSummary(projectID, run.Summary)
	}
	return run, nil
}

// Health reports whether the climate data is ready
func (h *Handlers) Health(w http.ResponseWriter, req *http.Request) {
	store := h.controller.deps.Climate
	state := store.State()
	body := map[string]any{
		"status":  "ok",
		"climate": state.String(),
		"version": constants.Version,
	}

	status := http.StatusOK
	if state != climate.StateReady {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		if _, err := store.Data(); err != nil {
			body["details"] = err.Error()
		}
	}
	h.respond(w, req, status, body)
}

// Presets returns the option lists of the input forms
func (h *Handlers) Presets(w http.ResponseWriter, req *http.Request) {
	h.respond(w, req, http.StatusOK, map[string]any{
		"directions":       types.Directions,
		"windowPresets":    types.WindowPresets,
		"activityLevels":   types.ActivityLevels,
		"lightingTypes":    types.LightingTypes,
		"exchangers":       types.Exchangers,
		"equipmentPresets": types.EquipmentPresets,
	})
}

// Calculate runs a calculation for the snapshot in the request body
func (h *Handlers) Calculate(w http.ResponseWriter, req *http.Request) {
	var s calc.Snapshot
	if err := h.decode(w, req, &s, false); err != nil {
		h.sendFailure(w, req, err)
		return
	}
	if m := req.URL.Query().Get("month"); m != "" {
		s.Month = m
	}

	run, err := h.calculate(s, "", true)
	if err != nil {
		h.sendFailure(w, req, err)
		return
	}
	h.respond(w, req, http.StatusOK, run)
}

type worstMonthRequest struct {
	Windows []types.Window `json:"windows"`
}

// WorstMonth returns the month with the highest beam gain through the windows
func (h *Handlers) WorstMonth(w http.ResponseWriter, req *http.Request) {
	var body worstMonthRequest
	if err := h.decode(w, req, &body, false); err != nil {
		h.sendFailure(w, req, err)
		return
	}
	data, err := h.controller.deps.Climate.Data()
	if err != nil {
		h.sendFailure(w, req, err)
		return
	}
	h.respond(w, req, http.StatusOK, map[string]int{"month": calc.WorstMonth(body.Windows, data.Design)})
}

type temperatureProfileRequest struct {
	TExternal types.Number `json:"tExternal"`
	Month     int          `json:"month"`
}

type temperatureProfileResponse struct {
	Month   int          `json:"month"`
	Profile types.Hourly `json:"profile"`
}

// TemperatureProfile returns the design-day outdoor temperature of a month
func (h *Handlers) TemperatureProfile(w http.ResponseWriter, req *http.Request) {
	var body temperatureProfileRequest
	if err := h.decode(w, req, &body, false); err != nil {
		h.sendFailure(w, req, err)
		return
	}
	if body.Month < 1 || body.Month > 12 {
		h.sendFailure(w, req, fmt.Errorf("%w: %d", calc.ErrInvalidMonth, body.Month))
		return
	}
	data, err := h.controller.deps.Climate.Data()
	if err != nil {
		h.sendFailure(w, req, err)
		return
	}

	peak := body.TExternal.OrDefault(types.DefaultTExternal)
	h.respond(w, req, http.StatusOK, temperatureProfileResponse{
		Month:   body.Month,
		Profile: calc.TemperatureProfile(peak, body.Month, data.Typical),
	})
}

// ListProjects returns the stored projects
func (h *Handlers) ListProjects(w http.ResponseWriter, req *http.Request) {
	items, err := h.controller.deps.Projects.List(req.Context())
	if err != nil {
		h.sendFailure(w, req, err)
		return
	}
	h.respond(w, req, http.StatusOK, items)
}

// CreateProject stores a new project. The body may carry any project fields;
// missing ones keep their defaults. Windows are numbered and get preset
// properties as if added one by one.
func (h *Handlers) CreateProject(w http.ResponseWriter, req *http.Request) {
	p := project.New("")
	if acc := h.controller.deps.Accumulation; acc.ThermalMass != "" {
		p.Accumulation = acc
	}
	if err := h.decode(w, req, p, true); err != nil {
		h.sendFailure(w, req, err)
		return
	}
	if err := p.ReplaceWindows(p.Windows); err != nil {
		h.sendFailure(w, req, err)
		return
	}

	if err := h.controller.deps.Projects.Create(req.Context(), p); err != nil {
		h.sendFailure(w, req, err)
		return
	}
	h.respond(w, req, http.StatusCreated, p)
}

// GetProject returns one project
func (h *Handlers) GetProject(w http.ResponseWriter, req *http.Request) {
	p, err := h.controller.deps.Projects.Get(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		h.sendFailure(w, req, err)
		return
	}
	h.respond(w, req, http.StatusOK, p)
}

// UpdateProject replaces a stored project with the body. Windows and
// equipment are kept when the body omits them; windows sent are renumbered
// 1..N.
func (h *Handlers) UpdateProject(w http.ResponseWriter, req *http.Request) {
	var patch project.Project
	if err := h.decode(w, req, &patch, false); err != nil {
		h.sendFailure(w, req, err)
		return
	}
	if err := validateWindows(patch.Windows); err != nil {
		h.sendFailure(w, req, err)
		return
	}

	h.mutateProject(w, req, http.StatusOK, func(p *project.Project) (any, error) {
		patch.ID, patch.CreatedAt = p.ID, p.CreatedAt
		if patch.Windows == nil {
			patch.Windows = p.Windows
		} else if err := patch.ReplaceWindows(patch.Windows); err != nil {
			return nil, err
		}
		if patch.Internal.Equipment == nil {
			patch.Internal.Equipment = p.Internal.Equipment
		}
		*p = patch
		return nil, nil
	})
}

// DeleteProject removes a project
func (h *Handlers) DeleteProject(w http.ResponseWriter, req *http.Request) {
	if err := h.controller.deps.Projects.Delete(req.Context(), mux.Vars(req)["id"]); err != nil {
		h.sendFailure(w, req, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetProject restores every input of a project to its default
func (h *Handlers) ResetProject(w http.ResponseWriter, req *http.Request) {
	h.mutateProject(w, req, http.StatusOK, func(p *project.Project) (any, error) {
		p.Reset()
		return nil, nil
	})
}

// AddWindow appends a window to a project
func (h *Handlers) AddWindow(w http.ResponseWriter, req *http.Request) {
	var win types.Window
	if err := h.decode(w, req, &win, false); err != nil {
		h.sendFailure(w, req, err)
		return
	}
	h.mutateProject(w, req, http.StatusCreated, func(p *project.Project) (any, error) {
		return p.AddWindow(win)
	})
}

// ImportWindows appends the windows of an uploaded spreadsheet. The workbook
// is either the raw body or the "file" field of a multipart form.
func (h *Handlers) ImportWindows(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)

	var src io.Reader = req.Body
	if ct, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type")); ct == "multipart/form-data" {
		file, _, err := req.FormFile("file")
		if err != nil {
			h.sendFailure(w, req, fmt.Errorf("%w: file required", errBadRequest))
			return
		}
		defer file.Close()
		src = file
	}

	windows, err := report.ReadWindows(src)
	if err != nil {
		h.sendFailure(w, req, err)
		return
	}

	h.mutateProject(w, req, http.StatusCreated, func(p *project.Project) (any, error) {
		added := make([]types.Window, 0, len(windows))
		for i, win := range windows {
			a, err := p.AddWindow(win)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
			added = append(added, a)
		}
		return added, nil
	})
}

// UpdateWindow replaces a window of a project
func (h *Handlers) UpdateWindow(w http.ResponseWriter, req *http.Request) {
	id, err := pathInt(req, "wid")
	if err != nil {
		h.sendFailure(w, req, err)
		return
	}
	var win types.Window
	if err := h.decode(w, req, &win, false); err != nil {
		h.sendFailure(w, req, err)
		return
	}
	win.ID = id

	h.mutateProject(w, req, http.StatusOK, func(p *project.Project) (any, error) {
		return win, p.UpdateWindow(win)
	})
}

// DeleteWindow removes a window and returns the renumbered list
func (h *Handlers) DeleteWindow(w http.ResponseWriter, req *http.Request) {
	id, err := pathInt(req, "wid")
	if err != nil {
		h.sendFailure(w, req, err)
		return
	}
	h.mutateProject(w, req, http.StatusOK, func(p *project.Project) (any, error) {
		if err := p.DeleteWindow(id); err != nil {
			return nil, err
		}
		return p.Windows, nil
	})
}

// DuplicateWindow copies a window under the next free ID
func (h *Handlers) DuplicateWindow(w http.ResponseWriter, req *http.Request) {
	id, err := pathInt(req, "wid")
	if err != nil {
		h.sendFailure(w, req, err)
		return
	}
	h.mutateProject(w, req, http.StatusCreated, func(p *project.Project) (any, error) {
		return p.DuplicateWindow(id)
	})
}

// UpdateShading applies one shading change to every window of a project
func (h *Handlers) UpdateShading(w http.ResponseWriter, req *http.Request) {
	var patch types.ShadingPatch
	if err := h.decode(w, req, &patch, false); err != nil {
		h.sendFailure(w, req, err)
		return
	}
	h.mutateProject(w, req, http.StatusOK, func(p *project.Project) (any, error) {
		p.UpdateAllShading(patch)
		return p.Windows, nil
	})
}

// AddEquipment appends an equipment item to a project
func (h *Handlers) AddEquipment(w http.ResponseWriter, req *http.Request) {
	var body project.EquipmentRequest
	if err := h.decode(w, req, &body, true); err != nil {
		h.sendFailure(w, req, err)
		return
	}
	h.mutateProject(w, req, http.StatusCreated, func(p *project.Project) (any, error) {
		return p.AddEquipment(body), nil
	})
}

// DeleteEquipment removes an equipment item
func (h *Handlers) DeleteEquipment(w http.ResponseWriter, req *http.Request) {
	id, err := pathInt(req, "eid")
	if err != nil {
		h.sendFailure(w, req, err)
		return
	}
	h.mutateProject(w, req, http.StatusOK, func(p *project.Project) (any, error) {
		if err := p.DeleteEquipment(id); err != nil {
			return nil, err
		}
		return p.Internal.Equipment, nil
	})
}

// mutateProject loads a project, applies fn and stores the result. The
// response body is fn's value, or the project when fn returns nil.
func (h *Handlers) mutateProject(w http.ResponseWriter, req *http.Request, status int, fn func(p *project.Project) (any, error)) {
	store := h.controller.deps.Projects
	ctx := req.Context()

	h.mu.Lock()
	defer h.mu.Unlock()

	p, err := store.Get(ctx, mux.Vars(req)["id"])
	if err != nil {
		h.sendFailure(w, req, err)
		return
	}
	out, err := fn(p)
	if err != nil {
		h.sendFailure(w, req, err)
		return
	}
	if err := store.Update(ctx, p); err != nil {
		h.sendFailure(w, req, err)
		return
	}
	if out == nil {
		out = p
	}
	h.respond(w, req, status, out)
}

func validateWindows(windows []types.Window) error {
	for _, win := range windows {
		if err := project.ValidateWindow(win); err != nil {
			return fmt.Errorf("window %d: %w", win.ID, err)
		}
	}
	return nil
}

// projectRun loads a project and calculates it, honouring ?month=
func (h *Handlers) projectRun(req *http.Request, publish bool) (*project.Project, calc.Snapshot, calc.Run, error) {
	p, err := h.controller.deps.Projects.Get(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		return nil, calc.Snapshot{}, calc.Run{}, err
	}
	s := p.Snapshot()
	if m := req.URL.Query().Get("month"); m != "" {
		s.Month = m
	}
	run, err := h.calculate(s, p.ID, publish)
	return p, s, run, err
}

// CalculateProject calculates a stored project
func (h *Handlers) CalculateProject(w http.ResponseWriter, req *http.Request) {
	_, _, run, err := h.projectRun(req, true)
	if err != nil {
		h.sendFailure(w, req, err)
		return
	}
	h.respond(w, req, http.StatusOK, run)
}

// ReportPDF renders a project report as PDF
func (h *Handlers) ReportPDF(w http.ResponseWriter, req *http.Request) {
	h.writeReport(w, req, "application/pdf", "pdf", report.WritePDF)
}

// ReportXLSX renders a project report as an Excel workbook
func (h *Handlers) ReportXLSX(w http.ResponseWriter, req *http.Request) {
	h.writeReport(w, req, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", report.WriteXLSX)
}

func (h *Handlers) writeReport(w http.ResponseWriter, req *http.Request, contentType, ext string, render func(io.Writer, report.Input) error) {
	p, s, run, err := h.projectRun(req, false)
	if err != nil {
		h.sendFailure(w, req, err)
		return
	}

	in := report.Input{
		Name:           p.Name(),
		Snapshot:       s,
		Run:            run,
		WithoutShading: req.URL.Query().Get("shading") == "off",
		GeneratedAt:    h.now(),
	}

	var buf bytes.Buffer
	if err := render(&buf, in); err != nil {
		h.sendFailure(w, req, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"report-%s.%s\"", p.ID, ext))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		h.controller.logger.Warnf("error sending report %s: %v", p.ID, err)
	}
}
