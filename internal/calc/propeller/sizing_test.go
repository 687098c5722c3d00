package propeller

import (
	"errors"
	"math"
	"testing"
)

func TestSize(t *testing.T) {
	tests := []struct {
		name     string
		diameter float64
		rpm      float64
		wantRPM  float64
		wantGear float64
	}{
		{name: "8 ft", diameter: 8.0, rpm: 2700, wantRPM: 2345.375, wantGear: 2700 / 2345.375},
		{name: "6 ft", diameter: 6.0, rpm: 2700, wantRPM: 3127.1666666666665, wantGear: 0.8634013750466344},
		{name: "direct drive", diameter: 18763.0 / 2700, rpm: 2700, wantRPM: 2700, wantGear: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Size(tt.diameter, tt.rpm)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got.MaxPropRPM-tt.wantRPM) > 1e-9 {
				t.Errorf("MaxPropRPM = %v, want %v", got.MaxPropRPM, tt.wantRPM)
			}
			if math.Abs(got.GearRatio-tt.wantGear) > 1e-9 {
				t.Errorf("GearRatio = %v, want %v", got.GearRatio, tt.wantGear)
			}
		})
	}
}

func TestSizeRejectsBeforeDividing(t *testing.T) {
	for _, d := range []float64{0, -3, math.NaN()} {
		_, err := Size(d, 2700)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("diameter %v: err = %v, want ValidationError", d, err)
		}
	}
}

func TestDeriveCoefficients(t *testing.T) {
	sz, _ := Size(8.0, 2700)
	a, err := DeriveCoefficients(180, sz.MaxPropRPM, 8.0)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := DeriveCoefficients(180, sz.MaxPropRPM, 8.0)
	if a != b {
		t.Errorf("repeated runs differ: %+v vs %+v", a, b)
	}
	if math.Abs(a.CP0-0.021271116) > 1e-6 {
		t.Errorf("CP0 = %.9f", a.CP0)
	}
	if math.Abs(a.CT0-a.CP0*0.86) > 1e-15 {
		t.Errorf("CT0 = %v, want 0.86*CP0", a.CT0)
	}
	if math.Abs(a.StaticThrustLbs-272.259) > 1e-3 {
		t.Errorf("StaticThrustLbs = %v", a.StaticThrustLbs)
	}
}

func TestDeriveCoefficientsRejects(t *testing.T) {
	cases := [][3]float64{
		{0, 2000, 6},
		{180, 0, 6},
		{180, 2000, -1},
	}
	for _, c := range cases {
		if _, err := DeriveCoefficients(c[0], c[1], c[2]); err == nil {
			t.Errorf("DeriveCoefficients%v: expected error", c)
		}
	}
}

func TestBladeCount(t *testing.T) {
	tests := []struct {
		cp0  float64
		want int
	}{
		{0.01, 2},
		{0.03, 2},
		{0.0349999, 2},
		{0.035, 3},
		{0.05, 3},
		{0.065, 3},
		{0.0650001, 4},
		{0.07, 4},
	}
	for _, tt := range tests {
		if got := BladeCount(tt.cp0); got != tt.want {
			t.Errorf("BladeCount(%v) = %d, want %d", tt.cp0, got, tt.want)
		}
	}
}

func TestBladeCountMonotonic(t *testing.T) {
	prev := BladeCount(0)
	for cp0 := 0.0; cp0 < 0.2; cp0 += 0.0005 {
		got := BladeCount(cp0)
		if got < prev {
			t.Fatalf("blade count fell from %d to %d at cp0=%v", prev, got, cp0)
		}
		prev = got
	}
}

func TestMomentOfInertia(t *testing.T) {
	// 6 ft, 3 blades: L=3, M=0.27951
	if got := MomentOfInertia(6, 3); math.Abs(got-2.51559) > 1e-9 {
		t.Errorf("MomentOfInertia(6, 3) = %v, want 2.51559", got)
	}
	// Toy prop, 1.5 ft: L=0.75, M=0.00225
	if got := MomentOfInertia(1.5, 2); math.Abs(got-2*(0.00225*0.75*0.75/3)) > 1e-12 {
		t.Errorf("MomentOfInertia(1.5, 2) = %v", got)
	}
}

func TestMomentOfInertiaIncreasing(t *testing.T) {
	for _, blades := range []int{2, 3, 4} {
		prev := MomentOfInertia(0.1, blades)
		for d := 0.2; d <= 12; d += 0.1 {
			got := MomentOfInertia(d, blades)
			if got <= prev {
				t.Fatalf("%d blades: ixx %v at d=%.1f not above %v", blades, got, d, prev)
			}
			prev = got
		}
	}
}

func TestMomentOfInertiaToyBranchSwitch(t *testing.T) {
	below := MomentOfInertia(1.999999, 2)
	at := MomentOfInertia(2.0, 2)
	// Mass per foot jumps from 0.003 to 0.09317 at a one foot blade.
	if at/below < 30 {
		t.Errorf("expected a discontinuous jump at 2 ft, got %v -> %v", below, at)
	}
}
