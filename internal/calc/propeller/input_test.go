package propeller

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestNormalizePower(t *testing.T) {
	tests := []struct {
		name    string
		v       float64
		unit    PowerUnit
		want    float64
		wantErr bool
	}{
		{name: "hp unchanged", v: 180, unit: PowerHP, want: 180},
		{name: "kw to hp", v: 100, unit: PowerKW, want: 134.1},
		{name: "zero", v: 0, unit: PowerHP, wantErr: true},
		{name: "negative kw", v: -5, unit: PowerKW, wantErr: true},
		{name: "nan", v: math.NaN(), unit: PowerHP, wantErr: true},
		{name: "unknown unit", v: 100, unit: PowerUnit(7), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePower(tt.v, tt.unit)
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("err = %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("NormalizePower = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeDiameter(t *testing.T) {
	tests := []struct {
		name    string
		v       float64
		unit    DiameterUnit
		want    float64
		wantErr bool
	}{
		{name: "feet unchanged", v: 6, unit: DiameterFt, want: 6},
		{name: "inches", v: 72, unit: DiameterIn, want: 6},
		{name: "meters", v: 2, unit: DiameterM, want: 6.562},
		{name: "zero inches", v: 0, unit: DiameterIn, wantErr: true},
		{name: "negative meters", v: -1, unit: DiameterM, wantErr: true},
		{name: "infinite", v: math.Inf(1), unit: DiameterFt, wantErr: true},
		{name: "unknown unit", v: 6, unit: DiameterUnit(3), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDiameter(tt.v, tt.unit)
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("err = %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("NormalizeDiameter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKilowattRoundTrip(t *testing.T) {
	hp, err := NormalizePower(100, PowerKW)
	if err != nil {
		t.Fatal(err)
	}
	if back := hp / kwToHP; math.Abs(back-100) > 0.01 {
		t.Errorf("round trip gave %v kW", back)
	}
}

func TestNormalizeRejectsRPM(t *testing.T) {
	for _, rpm := range []float64{0, -2700, math.NaN()} {
		_, err := Normalize(Request{EnginePower: 180, MaxEngineRPM: rpm, Diameter: 6})
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "max_engine_rpm" {
			t.Errorf("rpm %v: err = %v, want max_engine_rpm ValidationError", rpm, err)
		}
	}
}

func TestRequestJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Request
		wantErr bool
	}{
		{
			name: "numeric tags",
			body: `{"engine_power":150,"engine_units":1,"max_engine_rpm":2600,"prop_pitch":1,"diameter":1.9,"diameter_units":2}`,
			want: Request{EnginePower: 150, EngineUnits: PowerKW, MaxEngineRPM: 2600, PitchMode: PitchVariable, Diameter: 1.9, DiameterUnits: DiameterM},
		},
		{
			name: "named tags",
			body: `{"engine_power":180,"engine_units":"HP","max_engine_rpm":2700,"prop_pitch":"fixed","diameter":76,"diameter_units":"in"}`,
			want: Request{EnginePower: 180, EngineUnits: PowerHP, MaxEngineRPM: 2700, PitchMode: PitchFixed, Diameter: 76, DiameterUnits: DiameterIn},
		},
		{name: "unknown power unit", body: `{"engine_units":"ps"}`, wantErr: true},
		{name: "unknown diameter unit", body: `{"diameter_units":5}`, wantErr: true},
		{name: "unknown pitch", body: `{"prop_pitch":"feathered"}`, wantErr: true},
		{name: "object as tag", body: `{"prop_pitch":{}}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Request
			err := json.Unmarshal([]byte(tt.body), &got)
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("err = %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("decoded %+v, want %+v", got, tt.want)
			}
		})
	}
}
