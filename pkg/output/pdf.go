package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/iwvelando/capital-longevity/pkg/format"
	"github.com/iwvelando/capital-longevity/pkg/longevity"
	"github.com/iwvelando/capital-longevity/pkg/sweep"
)

// Report holds everything rendered into the PDF export of a dashboard view.
type Report struct {
	Capital     float64
	Withdrawal  float64
	RatePercent float64
	Result      longevity.Result
	Series      []sweep.Series
	GeneratedAt time.Time
}

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight

	valueColumnWidth = 60.0
	yearsColumnWidth = 50.0
	rowHeight        = 6.0
)

type pdfReport struct {
	pdf    *fpdf.Fpdf
	report Report
}

// WritePDFReport renders the report as a PDF document into w.
func WritePDFReport(w io.Writer, report Report) error {
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetTitle("Capital Longevity Report", true)

	r := &pdfReport{
		pdf:    pdf,
		report: report,
	}

	r.addSummaryPage()
	for _, series := range report.Series {
		r.addSeriesTable(series)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build PDF report: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}
	return nil
}

func (r *pdfReport) addSummaryPage() {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 22)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 14, "Capital Longevity Report", "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "I", 10)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Generated: %s", r.report.GeneratedAt.Format("2 January 2006 15:04")), "", 1, "C", false, 0, "")
	r.pdf.Ln(10)

	r.pdf.SetFillColor(245, 247, 250)
	r.pdf.SetDrawColor(200, 200, 200)
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, "Inputs", "1", 1, "C", true, 0, "")

	r.pdf.SetFont("Arial", "", 11)
	r.pdf.SetTextColor(50, 50, 50)
	r.labelRow("Initial Capital:", format.Currency(r.report.Capital), false)
	r.labelRow("Annual Withdrawal:", format.Currency(r.report.Withdrawal), false)
	r.labelRow("Real Rate of Return:", fmt.Sprintf("%.2f%%", r.report.RatePercent), true)

	r.pdf.Ln(8)
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, "Years Capital Lasts", "1", 1, "C", true, 0, "")
	r.pdf.SetFont("Arial", "B", 16)
	r.pdf.SetTextColor(0, 0, 200)
	r.pdf.CellFormat(contentWidth, 12, describeResult(r.report.Result), "LRB", 1, "C", true, 0, "")
}

func (r *pdfReport) labelRow(label, value string, last bool) {
	left, right := "L", "R"
	if last {
		left, right = "LB", "RB"
	}
	r.pdf.CellFormat(contentWidth/2, 7, label, left, 0, "R", true, 0, "")
	r.pdf.CellFormat(contentWidth/2, 7, " "+value, right, 1, "L", true, 0, "")
}

func (r *pdfReport) addSeriesTable(series sweep.Series) {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 14)
	r.pdf.SetTextColor(0, 51, 102)
	title := fmt.Sprintf("Years Capital Lasts vs %s", strings.TrimSuffix(series.Variable.AxisTitle(), " ($)"))
	r.pdf.CellFormat(contentWidth, 10, title, "", 1, "L", false, 0, "")
	r.pdf.Ln(2)

	r.pdf.SetFont("Arial", "B", 10)
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.CellFormat(valueColumnWidth, rowHeight+1, series.Variable.AxisTitle(), "1", 0, "C", true, 0, "")
	r.pdf.CellFormat(yearsColumnWidth, rowHeight+1, "Years", "1", 1, "C", true, 0, "")

	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	for i, point := range series.Points {
		fill := i%2 == 1
		if fill {
			r.pdf.SetFillColor(245, 247, 250)
		}
		r.pdf.CellFormat(valueColumnWidth, rowHeight, format.WholeCurrency(point.X), "1", 0, "R", fill, 0, "")
		r.pdf.CellFormat(yearsColumnWidth, rowHeight, describeResult(point.Result), "1", 1, "R", fill, 0, "")
	}
}

// describeResult spells out sentinels; the core PDF fonts have no infinity glyph.
func describeResult(result longevity.Result) string {
	switch result.State {
	case longevity.Finite:
		return fmt.Sprintf("%.2f", result.Years)
	case longevity.Infinite:
		return "Never depleted"
	default:
		return "Undefined"
	}
}
