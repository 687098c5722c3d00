package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"Propmatic/internal/calc/propeller"

	"github.com/xuri/excelize/v2"
)

// Column order of an import sheet. The first row is a header and is skipped.
const (
	colPower = iota
	colPowerUnits
	colMaxRPM
	colPitch
	colDiameter
	colDiameterUnits
	numCols
)

type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type PropellerImportResult struct {
	Count   int              `json:"count"`
	Results []propeller.Spec `json:"results"`
	Errors  []RowError       `json:"errors,omitempty"`
}

// Import computes a spec for every data row of the first sheet. Rows that
// fail to parse or validate are reported and skipped.
func Import(r io.Reader, calc func(propeller.Request) (propeller.Spec, error)) (PropellerImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return PropellerImportResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return PropellerImportResult{}, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) < 2 {
		return PropellerImportResult{}, fmt.Errorf("empty sheet")
	}

	var out PropellerImportResult
	for i := 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		// Spreadsheet row numbers are 1-based.
		n := i + 1
		req, err := parseRow(rows[i])
		if err != nil {
			out.Errors = append(out.Errors, RowError{Row: n, Error: err.Error()})
			continue
		}
		spec, err := calc(req)
		if err != nil {
			out.Errors = append(out.Errors, RowError{Row: n, Error: err.Error()})
			continue
		}
		out.Results = append(out.Results, spec)
	}
	out.Count = len(out.Results)
	return out, nil
}

func parseRow(row []string) (propeller.Request, error) {
	if len(row) < numCols {
		return propeller.Request{}, fmt.Errorf("expected %d columns, got %d", numCols, len(row))
	}
	power, err := toFloat("engine_power", row[colPower])
	if err != nil {
		return propeller.Request{}, err
	}
	powerUnits, err := propeller.ParsePowerUnit(row[colPowerUnits])
	if err != nil {
		return propeller.Request{}, err
	}
	rpm, err := toFloat("max_engine_rpm", row[colMaxRPM])
	if err != nil {
		return propeller.Request{}, err
	}
	pitch, err := propeller.ParsePitchMode(row[colPitch])
	if err != nil {
		return propeller.Request{}, err
	}
	diameter, err := toFloat("diameter", row[colDiameter])
	if err != nil {
		return propeller.Request{}, err
	}
	diameterUnits, err := propeller.ParseDiameterUnit(row[colDiameterUnits])
	if err != nil {
		return propeller.Request{}, err
	}
	return propeller.Request{
		EnginePower:   power,
		EngineUnits:   powerUnits,
		MaxEngineRPM:  rpm,
		PitchMode:     pitch,
		Diameter:      diameter,
		DiameterUnits: diameterUnits,
	}, nil
}

func toFloat(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &propeller.ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a number", s)}
	}
	return v, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
