package chart

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"Propmatic/internal/calc/propeller"

	"github.com/hashicorp/go-hclog"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestPNG(t *testing.T) {
	for _, mode := range []propeller.PitchMode{propeller.PitchFixed, propeller.PitchVariable} {
		t.Run(mode.String(), func(t *testing.T) {
			spec, err := propeller.Calculate(propeller.Request{EnginePower: 180, MaxEngineRPM: 2700, Diameter: 6, PitchMode: mode})
			if err != nil {
				t.Fatal(err)
			}
			img, err := PNG(spec, DefaultWidth, DefaultHeight)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(img, pngMagic) {
				t.Error("output is not a PNG")
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		table string
		curve propeller.Curve
		want  string
	}{
		{propeller.ThrustTableName, propeller.Curve{}, "Ct"},
		{propeller.PowerTableName, propeller.Curve{}, "Cp"},
		{propeller.ThrustTableName, propeller.Curve{PitchDeg: 12}, "Ct 12 deg"},
		{propeller.PowerTableName, propeller.Curve{PitchDeg: 30}, "Cp 30 deg"},
	}
	for _, tt := range tests {
		if got := label(tt.table, tt.curve); got != tt.want {
			t.Errorf("label(%s, %g) = %q, want %q", tt.table, tt.curve.PitchDeg, got, tt.want)
		}
	}
}

func TestChartHandler(t *testing.T) {
	h := &Handler{Logger: hclog.NewNullLogger()}
	req := httptest.NewRequest(http.MethodPost, "/api/tools/propeller/chart",
		bytes.NewBufferString(`{"engine_power":180,"max_engine_rpm":2700,"diameter":6}`))
	w := httptest.NewRecorder()
	h.Chart(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Content-Type") != "image/png" {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
}
