package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"Propmatic/internal/calc/chart"
	"Propmatic/internal/calc/propeller"

	"github.com/phpdave11/gofpdf"
	"gonum.org/v1/plot/vg"
)

// Meta is the title block of a datasheet.
type Meta struct {
	Project string    `json:"project"`
	Author  string    `json:"author"`
	Title   string    `json:"title"`
	Notes   string    `json:"notes"`
	Date    time.Time `json:"-"`
}

// WritePDF renders a one-spec datasheet: summary, curve chart and both
// coefficient tables.
func WritePDF(w io.Writer, meta Meta, s propeller.Spec) error {
	if meta.Title == "" {
		meta.Title = "Propeller Datasheet"
	}
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, meta.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", meta.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", meta.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", meta.Date.Format("2006-01-02")))
	pdf.Ln(10)

	summary(pdf, s)

	img, err := chart.PNG(s, 7*vg.Inch, 4*vg.Inch)
	if err != nil {
		return err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("curves", opts, bytes.NewReader(img))
	pdf.ImageOptions("curves", 10, pdf.GetY()+4, 180, 0, true, opts, 0, "")
	pdf.Ln(4)

	pdf.AddPage()
	table(pdf, s.Thrust)
	pdf.Ln(6)
	table(pdf, s.Power)

	notes := s.Notes
	if meta.Notes != "" {
		notes = meta.Notes + "\n\n" + notes
	}
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, notes, "", "L", false)

	return pdf.Output(w)
}

func summary(pdf *gofpdf.Fpdf, s propeller.Spec) {
	rows := [][2]string{
		{"Engine power", fmt.Sprintf("%.1f hp", s.Input.EnginePowerHP)},
		{"Max engine rpm", fmt.Sprintf("%.0f", s.Input.MaxEngineRPM)},
		{"Diameter", fmt.Sprintf("%.2f ft (%.1f in)", s.DiameterFt, s.DiameterFt*12)},
		{"Pitch", s.Pitch.String()},
		{"Max prop rpm", fmt.Sprintf("%.2f", s.MaxPropRPM)},
		{"Gear ratio", fmt.Sprintf("%.4f", s.GearRatio)},
		{"Cp0", fmt.Sprintf("%.6f", s.CP0)},
		{"Ct0", fmt.Sprintf("%.6f", s.CT0)},
		{"Static thrust", fmt.Sprintf("%.2f lbf", s.StaticThrustLbs)},
		{"Blades", fmt.Sprintf("%d", s.Blades)},
		{"Ixx", fmt.Sprintf("%.4f slug ft2", s.Ixx)},
	}
	if g := s.Governor; g != nil {
		rows = append(rows,
			[2]string{"Pitch range", fmt.Sprintf("%g to %g deg", g.MinPitchDeg, g.MaxPitchDeg)},
			[2]string{"Governed rpm", fmt.Sprintf("%.0f to %.0f", g.MinRPM, g.MaxRPM)},
		)
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		pdf.CellFormat(50, 6, r[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(70, 6, r[1], "1", 1, "L", false, 0, "")
	}
}

func table(pdf *gofpdf.Fpdf, t propeller.Table) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, t.Name)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(25, 6, "J", "1", 0, "C", false, 0, "")
	if pitches := t.Pitches(); pitches != nil {
		for _, p := range pitches {
			pdf.CellFormat(30, 6, fmt.Sprintf("%g deg", p), "1", 0, "C", false, 0, "")
		}
	} else {
		pdf.CellFormat(30, 6, "value", "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range t.Rows() {
		pdf.CellFormat(25, 5, fmt.Sprintf("%.1f", r.J), "1", 0, "C", false, 0, "")
		for _, v := range r.Values {
			pdf.CellFormat(30, 5, fmt.Sprintf("%.4f", v), "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
