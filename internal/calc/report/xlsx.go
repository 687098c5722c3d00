package report

import (
	"fmt"
	"io"

	"Propmatic/internal/calc/propeller"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// Workbook lays out s as a summary sheet plus one sheet per coefficient table.
func Workbook(s propeller.Spec) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, err
	}

	rows := [][]interface{}{
		{"Quantity", "Value", "Unit"},
		{"Engine power", s.Input.EnginePowerHP, "hp"},
		{"Max engine rpm", s.Input.MaxEngineRPM, "rpm"},
		{"Diameter", s.DiameterFt, "ft"},
		{"Pitch", s.Pitch.String(), ""},
		{"Max prop rpm", s.MaxPropRPM, "rpm"},
		{"Gear ratio", s.GearRatio, ""},
		{"Cp0", s.CP0, ""},
		{"Ct0", s.CT0, ""},
		{"Static thrust", s.StaticThrustLbs, "lbf"},
		{"Blades", s.Blades, ""},
		{"Ixx", s.Ixx, "slug ft2"},
	}
	if g := s.Governor; g != nil {
		rows = append(rows,
			[]interface{}{"Min pitch", g.MinPitchDeg, "deg"},
			[]interface{}{"Max pitch", g.MaxPitchDeg, "deg"},
			[]interface{}{"Min rpm", g.MinRPM, "rpm"},
			[]interface{}{"Max rpm", g.MaxRPM, "rpm"},
		)
	}
	if err := setRows(f, summarySheet, rows); err != nil {
		f.Close()
		return nil, err
	}

	numFmt := "0.0000"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		f.Close()
		return nil, err
	}
	for _, t := range []propeller.Table{s.Thrust, s.Power} {
		if err := tableSheet(f, t, style); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteXLSX writes the workbook for s to w.
func WriteXLSX(w io.Writer, s propeller.Spec) error {
	f, err := Workbook(s)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func tableSheet(f *excelize.File, t propeller.Table, style int) error {
	if _, err := f.NewSheet(t.Name); err != nil {
		return err
	}
	header := []interface{}{"J"}
	if pitches := t.Pitches(); pitches != nil {
		for _, p := range pitches {
			header = append(header, fmt.Sprintf("%g deg", p))
		}
	} else {
		header = append(header, t.Name)
	}
	rows := [][]interface{}{header}
	for _, r := range t.Rows() {
		row := []interface{}{r.J}
		for _, v := range r.Values {
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	if err := setRows(f, t.Name, rows); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), len(rows))
	if err != nil {
		return err
	}
	return f.SetCellStyle(t.Name, "B2", last, style)
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
