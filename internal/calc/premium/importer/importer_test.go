package importer

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"Propmatic/internal/calc/propeller"

	"github.com/hashicorp/go-hclog"
	"github.com/xuri/excelize/v2"
)

func sheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestImport(t *testing.T) {
	buf := sheet(t, [][]interface{}{
		{"power", "units", "max rpm", "pitch", "diameter", "units"},
		{180, "hp", 2700, "fixed", 6, "ft"},
		{150, "kW", 2600, "variable", 1.9, "m"},
		{},
		{180, "hp", 2700, "fixed", 0, "ft"},
		{"lots", "hp", 2700, "fixed", 6, "ft"},
		{180, "ps", 2700, "fixed", 6, "ft"},
		{180, "hp", 2700},
	})

	res, err := Import(buf, propeller.Calculate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != 2 || len(res.Results) != 2 {
		t.Fatalf("count = %d, want 2", res.Count)
	}
	if res.Results[1].Pitch != propeller.PitchVariable {
		t.Errorf("row 3 pitch = %s", res.Results[1].Pitch)
	}

	wantRows := []int{5, 6, 7, 8}
	if len(res.Errors) != len(wantRows) {
		t.Fatalf("errors = %+v, want rows %v", res.Errors, wantRows)
	}
	for i, want := range wantRows {
		if res.Errors[i].Row != want {
			t.Errorf("error %d on row %d, want %d", i, res.Errors[i].Row, want)
		}
	}
}

func TestImportEmptySheet(t *testing.T) {
	buf := sheet(t, [][]interface{}{{"power"}})
	if _, err := Import(buf, propeller.Calculate); err == nil {
		t.Error("expected error for a header-only sheet")
	}
	if _, err := Import(bytes.NewBufferString("not a workbook"), propeller.Calculate); err == nil {
		t.Error("expected error for a non-xlsx upload")
	}
}

func TestHandler(t *testing.T) {
	h := &Handler{Logger: hclog.NewNullLogger()}
	xlsx := sheet(t, [][]interface{}{
		{"power", "units", "max rpm", "pitch", "diameter", "units"},
		{180, "hp", 2700, "fixed", 72, "in"},
	})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", "props.xlsx")
	part.Write(xlsx.Bytes())
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/premium/propeller/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.Propellers(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/premium/propeller/import", nil)
	w = httptest.NewRecorder()
	h.Propellers(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing file: status = %d, want 400", w.Code)
	}
}
