package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/chrissnell/coolingload/internal/types"
)

const (
	sheetSummary = "Summary"
	sheetHourly  = "Hourly"
	sheetWindows = "Windows"
)

// ErrInvalidSheet is returned when an imported workbook cannot be read as a window list
var ErrInvalidSheet = errors.New("invalid window sheet")

// WriteXLSX writes the summary, hourly table and window list of in as a workbook
func WriteXLSX(w io.Writer, in Input) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeSummarySheet(f, in); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := writeHourlySheet(f, in, bold); err != nil {
		return fmt.Errorf("failed to write hourly sheet: %w", err)
	}
	if err := writeWindowsSheet(f, in.Snapshot.Windows, bold); err != nil {
		return fmt.Errorf("failed to write windows sheet: %w", err)
	}
	if err := f.SetColStyle(sheetSummary, "A", bold); err != nil {
		return err
	}
	return f.Write(w)
}

func writeSummarySheet(f *excelize.File, in Input) error {
	s := in.Summary()
	values := [][]any{
		{"Project", in.Name},
		{"Month", s.Month},
		{"Worst month", in.Run.WorstMonth},
		{"Time zone", s.Zone},
		{"Shading included", !in.WithoutShading},
		{"Peak hour (local)", s.PeakHourLocal},
		{"Peak hour (UTC)", s.PeakHourUTC},
		{"Peak total [W]", s.PeakTotal},
		{"Peak sensible [W]", s.PeakSensible},
		{"Peak latent [W]", s.PeakLatent},
		{"Solar [W]", s.Solar},
		{"Conduction [W]", s.Conduction},
		{"Internal sensible [W]", s.InternalSensible},
		{"Ventilation sensible [W]", s.VentilationSensible},
		{"Daily energy clear sky [kWh]", s.DailyEnergyDesign},
		{"Daily energy typical [kWh]", s.DailyEnergyTypical},
	}
	for i, row := range values {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheetSummary, "A", "A", 30)
}

func writeHourlySheet(f *excelize.File, in Input, headerStyle int) error {
	if _, err := f.NewSheet(sheetHourly); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetHourly, "A1", &hourlyHeaders); err != nil {
		return err
	}
	for i, r := range Rows(in) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			r.LocalHour, r.UTCHour, r.TExternal, r.Solar, r.Conduction, r.InternalSensible,
			r.VentilationSensible, r.Latent, r.Sensible, r.Total, r.TotalTypical,
		}
		if err := f.SetSheetRow(sheetHourly, cell, &row); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(hourlyHeaders), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheetHourly, "A1", last, headerStyle)
}

var windowColumns = []string{"id", "direction", "type", "width", "height", "u", "shgc", "shading"}

func writeWindowsSheet(f *excelize.File, windows []types.Window, headerStyle int) error {
	if _, err := f.NewSheet(sheetWindows); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetWindows, "A1", &windowColumns); err != nil {
		return err
	}
	for i, w := range windows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{w.ID, w.Direction, string(w.Type), w.Width.Float(), w.Height.Float(), w.U.Float(), w.SHGC.Float(), shadingLabel(w)}
		if err := f.SetSheetRow(sheetWindows, cell, &row); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheetWindows, "A1", "H1", headerStyle)
}

// ReadWindows reads a window list from the first sheet of a workbook. The
// first row names the columns; direction, width and height are required,
// type, u and shgc are optional. Other columns are ignored.
func ReadWindows(r io.Reader) ([]types.Window, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSheet, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSheet, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("%w: empty sheet", ErrInvalidSheet)
	}

	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"direction", "width", "height"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidSheet, required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	number := func(row []string, name string, line int) (types.Number, error) {
		v := cell(row, name)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: row %d column %s: %q is not a number", ErrInvalidSheet, line, name, v)
		}
		return types.Number(n), nil
	}

	windows := []types.Window{}
	for i, row := range rows[1:] {
		line := i + 2
		if cell(row, "direction") == "" {
			continue
		}
		w := types.Window{
			Direction: strings.ToUpper(cell(row, "direction")),
			Type:      types.EnvelopeType(strings.ToLower(cell(row, "type"))),
		}
		for name, dst := range map[string]*types.Number{"width": &w.Width, "height": &w.Height, "u": &w.U, "shgc": &w.SHGC} {
			if *dst, err = number(row, name, line); err != nil {
				return nil, err
			}
		}
		windows = append(windows, w)
	}
	return windows, nil
}
