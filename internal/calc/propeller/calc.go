package propeller

import "math"

// Spec is everything the simulator needs to model one propeller. It is
// rebuilt from scratch for every request.
type Spec struct {
	Input           Input     `json:"input"`
	DiameterFt      float64   `json:"diameter_ft"`
	MaxPropRPM      float64   `json:"max_prop_rpm"`
	GearRatio       float64   `json:"gear_ratio"`
	CP0             float64   `json:"cp0"`
	CT0             float64   `json:"ct0"`
	StaticThrustLbs float64   `json:"static_thrust_lbs"`
	Blades          int       `json:"blades"`
	Ixx             float64   `json:"ixx"`
	Pitch           PitchMode `json:"pitch_mode"`
	Governor        *Governor `json:"governor,omitempty"`
	Thrust          Table     `json:"thrust"`
	Power           Table     `json:"power"`
	Notes           string    `json:"notes"`
}

// Calculate normalizes req and builds its Spec.
func Calculate(req Request) (Spec, error) {
	in, err := Normalize(req)
	if err != nil {
		return Spec{}, err
	}
	return Build(in)
}

// Build runs the model on an already normalized input.
func Build(in Input) (Spec, error) {
	if err := positive("engine_power", in.EnginePowerHP); err != nil {
		return Spec{}, err
	}
	if !in.Pitch.valid() {
		return Spec{}, invalid("prop_pitch", "unknown pitch mode")
	}
	sz, err := Size(in.DiameterFt, in.MaxEngineRPM)
	if err != nil {
		return Spec{}, err
	}
	co, err := DeriveCoefficients(in.EnginePowerHP, sz.MaxPropRPM, in.DiameterFt)
	if err != nil {
		return Spec{}, err
	}
	blades := BladeCount(co.CP0)
	thrust, power, err := GenerateCurves(in.Pitch, co.CP0, co.CT0)
	if err != nil {
		return Spec{}, err
	}

	s := Spec{
		Input:           in,
		DiameterFt:      in.DiameterFt,
		MaxPropRPM:      sz.MaxPropRPM,
		GearRatio:       sz.GearRatio,
		CP0:             co.CP0,
		CT0:             co.CT0,
		StaticThrustLbs: co.StaticThrustLbs,
		Blades:          blades,
		Ixx:             MomentOfInertia(in.DiameterFt, blades),
		Pitch:           in.Pitch,
		Governor:        Governing(in.Pitch, sz.MaxPropRPM),
		Thrust:          thrust,
		Power:           power,
		Notes:           notes(in.Pitch),
	}
	if err := s.verify(); err != nil {
		return Spec{}, err
	}
	return s, nil
}

func notes(mode PitchMode) string {
	if mode == PitchVariable {
		return "Constant-speed propeller, 12 to 30 deg pitch, tip Mach 0.88 static."
	}
	return "Fixed-pitch propeller, tip Mach 0.88 static."
}

// verify rejects a spec carrying a non-finite or non-physical value.
func (s Spec) verify() error {
	physical := []struct {
		name string
		v    float64
	}{
		{"diameter", s.DiameterFt},
		{"max prop rpm", s.MaxPropRPM},
		{"gear ratio", s.GearRatio},
		{"static thrust", s.StaticThrustLbs},
		{"ixx", s.Ixx},
	}
	for _, p := range physical {
		if !finite(p.v) || p.v <= 0 {
			return broken("sizing", "%s is %v", p.name, p.v)
		}
	}
	if !finite(s.CP0) || !finite(s.CT0) {
		return broken("coefficients", "cp0=%v ct0=%v", s.CP0, s.CT0)
	}
	if s.Blades < 2 || s.Blades > 4 {
		return broken("blades", "%d blades", s.Blades)
	}
	for _, t := range []Table{s.Thrust, s.Power} {
		for _, c := range t.Curves {
			for _, p := range c.Points {
				if !finite(p.Value) {
					return broken(t.Name, "value at J=%.2f is %v", p.J, p.Value)
				}
			}
		}
	}
	if (s.Pitch == PitchVariable) != (s.Governor != nil) {
		return broken("governor", "governing range does not match %s pitch", s.Pitch)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
