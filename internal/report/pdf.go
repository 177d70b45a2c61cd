package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/phpdave11/gofpdf"

	"github.com/chrissnell/coolingload/internal/types"
)

const (
	pdfFont       = "Helvetica"
	pdfLineHeight = 6.0
	pdfRowHeight  = 5.5
	pdfPageWidth  = 180.0 // A4 width minus default margins, mm
)

type pdfWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// WritePDF renders a printable report of in to w
func WritePDF(w io.Writer, in Input) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pw := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetTitle("Cooling load report: "+in.Name, true)
	pdf.SetCreator("coolingload", false)
	if !in.GeneratedAt.IsZero() {
		pdf.SetCreationDate(in.GeneratedAt)
	}
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pw.header(in)
	pw.conditions(in)
	pw.peak(in)
	pw.windows(in.Snapshot.Windows)

	pdf.AddPage()
	pw.hourly(in)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return pdf.Output(w)
}

func (p *pdfWriter) title(text string) {
	p.pdf.Ln(4)
	p.pdf.SetFont(pdfFont, "B", 12)
	p.pdf.Cell(0, pdfLineHeight+2, p.tr(text))
	p.pdf.Ln(pdfLineHeight + 2)
	p.pdf.SetFont(pdfFont, "", 10)
}

func (p *pdfWriter) pair(label, value string) {
	p.pdf.CellFormat(70, pdfLineHeight, p.tr(label), "", 0, "L", false, 0, "")
	p.pdf.CellFormat(0, pdfLineHeight, p.tr(value), "", 1, "L", false, 0, "")
}

func (p *pdfWriter) header(in Input) {
	s := in.Summary()
	p.pdf.SetFont(pdfFont, "B", 16)
	p.pdf.Cell(0, 10, p.tr("Cooling load report"))
	p.pdf.Ln(12)
	p.pdf.SetFont(pdfFont, "", 11)
	p.pair("Project", in.Name)
	if !in.GeneratedAt.IsZero() {
		p.pair("Date", in.GeneratedAt.Format("2006-01-02 15:04"))
	}
	month := strconv.Itoa(s.Month)
	if in.Run.WorstMonth {
		month += " (worst month)"
	}
	p.pair("Design month", month)
	p.pair("Time zone", s.Zone)
	if in.WithoutShading {
		p.pair("Shading", "excluded")
	} else {
		p.pair("Shading", "included")
	}
}

func (p *pdfWriter) conditions(in Input) {
	c := in.Snapshot.Room.Conditions()
	acc := in.Snapshot.Accumulation
	p.title("Design conditions")
	p.pair("Indoor temperature", fmt.Sprintf("%.1f °C", c.TInternal))
	p.pair("Indoor relative humidity", fmt.Sprintf("%.0f %%", c.RHInternal*100))
	p.pair("Outdoor peak temperature", fmt.Sprintf("%.1f °C", c.TExternal))
	p.pair("Outdoor dew point", fmt.Sprintf("%.1f °C", c.TDewPoint))
	p.pair("Floor area", fmt.Sprintf("%.1f m²", c.RoomArea))
	if acc.Include {
		p.pair("Heat accumulation", fmt.Sprintf("%s mass, %s floor, %.0f %% glass", acc.ThermalMass, acc.FloorType, acc.GlassPercentage.Float()))
	} else {
		p.pair("Heat accumulation", "not included")
	}
}

func (p *pdfWriter) peak(in Input) {
	s := in.Summary()
	p.title("Peak cooling load")
	p.pair("Peak hour", fmt.Sprintf("%02d:00 local (%02d:00 UTC)", s.PeakHourLocal, s.PeakHourUTC))
	p.pair("Total", fmt.Sprintf("%.0f W", s.PeakTotal))
	p.pair("Sensible", fmt.Sprintf("%.0f W", s.PeakSensible))
	p.pair("Latent", fmt.Sprintf("%.0f W", s.PeakLatent))
	p.pair("  Solar", fmt.Sprintf("%.0f W", s.Solar))
	p.pair("  Conduction", fmt.Sprintf("%.0f W", s.Conduction))
	p.pair("  Internal gains", fmt.Sprintf("%.0f W", s.InternalSensible))
	p.pair("  Ventilation", fmt.Sprintf("%.0f W", s.VentilationSensible))
	p.pair("Daily energy, clear sky", fmt.Sprintf("%.2f kWh", s.DailyEnergyDesign))
	p.pair("Daily energy, typical", fmt.Sprintf("%.2f kWh", s.DailyEnergyTypical))
}

func (p *pdfWriter) tableHeader(widths []float64, headers []string) {
	p.pdf.SetFont(pdfFont, "B", 8)
	p.pdf.SetFillColor(220, 230, 240)
	for i, h := range headers {
		p.pdf.CellFormat(widths[i], pdfRowHeight+1, p.tr(h), "1", 0, "C", true, 0, "")
	}
	p.pdf.Ln(-1)
	p.pdf.SetFont(pdfFont, "", 8)
}

func (p *pdfWriter) tableRow(widths []float64, cells []string) {
	for i, c := range cells {
		align := "R"
		if i == 0 {
			align = "C"
		}
		p.pdf.CellFormat(widths[i], pdfRowHeight, p.tr(c), "1", 0, align, false, 0, "")
	}
	p.pdf.Ln(-1)
}

func (p *pdfWriter) windows(windows []types.Window) {
	p.title("Windows")
	if len(windows) == 0 {
		p.pdf.Cell(0, pdfLineHeight, "No windows.")
		p.pdf.Ln(pdfLineHeight)
		return
	}

	widths := []float64{10, 20, 30, 20, 20, 20, 60}
	p.tableHeader(widths, []string{"#", "Direction", "Type", "Area [m²]", "U", "SHGC", "Shading"})
	for _, w := range windows {
		p.tableRow(widths, []string{
			strconv.Itoa(w.ID),
			w.Direction,
			string(w.Type),
			fmt.Sprintf("%.2f", w.Area()),
			fmt.Sprintf("%.2f", w.U.Float()),
			fmt.Sprintf("%.2f", w.SHGC.Float()),
			shadingLabel(w),
		})
	}
}

func (p *pdfWriter) hourly(in Input) {
	p.title("Hourly cooling load, local time")

	widths := make([]float64, len(hourlyHeaders))
	widths[0], widths[1] = 12, 12
	rest := (pdfPageWidth - 24) / float64(len(hourlyHeaders)-2)
	for i := 2; i < len(widths); i++ {
		widths[i] = rest
	}

	p.tableHeader(widths, hourlyHeaders)
	for _, r := range Rows(in) {
		p.tableRow(widths, []string{
			fmt.Sprintf("%02d", r.LocalHour),
			fmt.Sprintf("%02d", r.UTCHour),
			fmt.Sprintf("%.1f", r.TExternal),
			fmt.Sprintf("%.0f", r.Solar),
			fmt.Sprintf("%.0f", r.Conduction),
			fmt.Sprintf("%.0f", r.InternalSensible),
			fmt.Sprintf("%.0f", r.VentilationSensible),
			fmt.Sprintf("%.0f", r.Latent),
			fmt.Sprintf("%.0f", r.Sensible),
			fmt.Sprintf("%.0f", r.Total),
			fmt.Sprintf("%.0f", r.TotalTypical),
		})
	}
}
