// Package calc turns a room description and the climate reference data into
// hourly cooling loads using the Radiant Time Series method.
package calc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/chrissnell/coolingload/internal/climate"
	"github.com/chrissnell/coolingload/internal/types"
)

// ErrInvalidMonth is returned for a month that is not 1-12
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// Snapshot is an immutable copy of everything a calculation reads
type Snapshot struct {
	Windows      []types.Window             `json:"windows"`
	Room         types.RoomInput            `json:"input"`
	Accumulation types.AccumulationSettings `json:"accumulation"`
	Internal     types.InternalGains        `json:"internalGains"`
	// Month is "1".."12", or empty to search for the worst month
	Month string `json:"month,omitempty"`
}

// Run is the outcome of a full calculation request
type Run struct {
	Month int `json:"month"`
	// WorstMonth is true when Month was found by the worst-month search
	WorstMonth     bool          `json:"worstMonth"`
	TExternal      types.Hourly  `json:"tExternal"`
	WithShading    types.Results `json:"withShading"`
	WithoutShading types.Results `json:"withoutShading"`
	Summary        Summary       `json:"summary"`
}

// Engine runs calculations. It holds no per-calculation state and is safe for
// concurrent use.
type Engine struct {
	logger *zap.SugaredLogger
}

// NewEngine returns an engine that logs fallbacks to logger
func NewEngine(logger *zap.SugaredLogger) *Engine {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Engine{logger: logger}
}

// ParseMonth parses a month number. An empty string returns 0 and no error.
func ParseMonth(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 || m > 12 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return m, nil
}

// Run picks the month, builds its temperature profile and calculates the
// loads with and without shading
func (e *Engine) Run(s Snapshot, data *climate.Data) (Run, error) {
	if data == nil {
		return Run{}, climate.ErrNotReady
	}
	month, err := ParseMonth(s.Month)
	if err != nil {
		return Run{}, err
	}

	var run Run
	if month == 0 {
		month = WorstMonth(s.Windows, data.Design)
		run.WorstMonth = true
		e.logger.Debugf("worst month for %d windows is %d", len(s.Windows), month)
	}
	run.Month = month

	cond := s.Room.Conditions()
	run.TExternal = TemperatureProfile(cond.TExternal, month, data.Typical)
	run.WithShading = e.Calculate(s, data, month, run.TExternal, false)
	run.WithoutShading = e.Calculate(s, data, month, run.TExternal, true)
	run.Summary = Summarize(run.WithShading, s.Windows)
	return run, nil
}
