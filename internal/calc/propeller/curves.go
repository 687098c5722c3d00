package propeller

import "fmt"

const (
	ThrustTableName = "C_THRUST"
	PowerTableName  = "C_POWER"

	// Constant-speed props govern between 85% and 100% of max prop rpm.
	governorLowFraction = 0.85

	// Blade angles of the two variable-pitch schedules.
	finePitchDeg   = 12.0
	coarsePitchDeg = 30.0
)

// Multiplier scales a baseline coefficient at one advance ratio.
type Multiplier struct {
	J      float64
	Factor float64
}

// PitchSchedule holds the curve shape of the reference blade at one pitch.
// The offsets shift the baseline coefficient before the factors apply.
type PitchSchedule struct {
	PitchDeg     float64
	ThrustOffset float64
	PowerOffset  float64
	Thrust       []Multiplier
	Power        []Multiplier
}

// CurveSet is one schedule for fixed pitch, or one per pitch angle in
// ascending order for variable pitch.
type CurveSet []PitchSchedule

type Point struct {
	J     float64 `json:"j"`
	Value float64 `json:"value"`
}

// Curve is a coefficient against advance ratio. PitchDeg is zero for fixed pitch.
type Curve struct {
	PitchDeg float64 `json:"pitch_deg,omitempty"`
	Points   []Point `json:"points"`
}

type Table struct {
	Name   string  `json:"name"`
	Curves []Curve `json:"curves"`
}

type Row struct {
	J      float64
	Values []float64
}

type Governor struct {
	MinPitchDeg float64 `json:"min_pitch_deg"`
	MaxPitchDeg float64 `json:"max_pitch_deg"`
	MinRPM      float64 `json:"min_rpm"`
	MaxRPM      float64 `json:"max_rpm"`
}

var fixedThrust = [...]Multiplier{
	{0.0, 1.0},
	{0.1, 0.959},
	{0.2, 0.917},
	{0.3, 0.844},
	{0.4, 0.758},
	{0.5, 0.668},
	{0.6, 0.540},
	{0.7, 0.410},
	{0.8, 0.222},
	{1.0, -0.075},
	{1.2, -0.394},
	{1.4, -0.708},
}

var fixedPower = [...]Multiplier{
	{0.0, 1.0},
	{0.1, 1.0},
	{0.2, 0.976},
	{0.3, 0.953},
	{0.4, 0.898},
	{0.5, 0.823},
	{0.6, 0.755},
	{0.7, 0.634},
	{0.8, 0.518},
	{1.0, 0.185},
	{1.2, -0.296},
	{1.4, -0.890},
	{1.6, -1.511},
}

var fineThrust = [...]Multiplier{
	{0.0, 1.0},
	{0.1, 0.917},
	{0.2, 0.833},
	{0.3, 0.692},
	{0.4, 0.526},
	{0.5, 0.359},
	{0.6, 0.154},
	{0.7, -0.013},
	{0.8, -0.295},
	{1.0, -0.641},
	{1.2, -1.050},
	{1.4, -1.436},
	{1.6, -1.880},
	{1.8, -2.300},
	{2.0, -2.700},
	{2.2, -3.100},
	{2.4, -3.500},
}

var coarseThrust = [...]Multiplier{
	{0.0, 1.0},
	{0.1, 1.0},
	{0.2, 1.0},
	{0.3, 0.995},
	{0.4, 0.990},
	{0.5, 0.977},
	{0.6, 0.925},
	{0.7, 0.832},
	{0.8, 0.738},
	{1.0, 0.491},
	{1.2, 0.262},
	{1.4, 0.019},
	{1.6, -0.215},
	{1.8, -0.448},
	{2.0, -0.692},
	{2.2, -0.940},
	{2.4, -1.190},
}

var finePower = [...]Multiplier{
	{0.0, 1.0},
	{0.1, 1.0},
	{0.2, 0.953},
	{0.3, 0.906},
	{0.4, 0.797},
	{0.5, 0.656},
	{0.6, 0.531},
	{0.7, 0.313},
	{0.8, 0.125},
	{1.0, -0.375},
	{1.2, -1.093},
	{1.4, -2.030},
	{1.6, -3.0},
	{1.8, -4.0},
	{2.0, -5.0},
	{2.2, -6.0},
}

var coarsePower = [...]Multiplier{
	{0.0, 1.0},
	{0.1, 1.0},
	{0.2, 1.0},
	{0.3, 1.0},
	{0.4, 1.0},
	{0.5, 0.989},
	{0.6, 0.978},
	{0.7, 0.956},
	{0.8, 0.911},
	{1.0, 0.744},
	{1.2, 0.500},
	{1.4, 0.250},
	{1.6, -0.022},
	{1.8, -0.610},
	{2.0, -1.220},
	{2.2, -1.830},
}

// Tables returns a copy of the reference blade schedules for mode.
func Tables(mode PitchMode) (CurveSet, error) {
	switch mode {
	case PitchFixed:
		return CurveSet{{
			Thrust: fixedThrust[:],
			Power:  fixedPower[:],
		}}.clone(), nil
	case PitchVariable:
		return CurveSet{
			{PitchDeg: finePitchDeg, Thrust: fineThrust[:], Power: finePower[:]},
			{PitchDeg: coarsePitchDeg, ThrustOffset: 0.04, PowerOffset: 0.06, Thrust: coarseThrust[:], Power: coarsePower[:]},
		}.clone(), nil
	}
	return nil, invalid("prop_pitch", fmt.Sprintf("unknown pitch mode %d", int(mode)))
}

func (cs CurveSet) clone() CurveSet {
	out := make(CurveSet, len(cs))
	for i, s := range cs {
		s.Thrust = append([]Multiplier(nil), s.Thrust...)
		s.Power = append([]Multiplier(nil), s.Power...)
		out[i] = s
	}
	return out
}

// GenerateCurves scales the reference schedules for mode by ct0 and cp0.
func GenerateCurves(mode PitchMode, cp0, ct0 float64) (thrust, power Table, err error) {
	set, err := Tables(mode)
	if err != nil {
		return Table{}, Table{}, err
	}
	return set.Scale(cp0, ct0)
}

// Scale builds the thrust and power tables from the schedules in cs.
func (cs CurveSet) Scale(cp0, ct0 float64) (thrust, power Table, err error) {
	if len(cs) == 0 {
		return Table{}, Table{}, broken("curves", "no pitch schedules")
	}
	thrust = Table{Name: ThrustTableName, Curves: make([]Curve, 0, len(cs))}
	power = Table{Name: PowerTableName, Curves: make([]Curve, 0, len(cs))}
	for _, s := range cs {
		thrust.Curves = append(thrust.Curves, scale(s.PitchDeg, ct0+s.ThrustOffset, s.Thrust))
		power.Curves = append(power.Curves, scale(s.PitchDeg, cp0+s.PowerOffset, s.Power))
	}
	if err := thrust.check(); err != nil {
		return Table{}, Table{}, err
	}
	if err := power.check(); err != nil {
		return Table{}, Table{}, err
	}
	return thrust, power, nil
}

func scale(pitch, base float64, ms []Multiplier) Curve {
	c := Curve{PitchDeg: pitch, Points: make([]Point, len(ms))}
	for i, m := range ms {
		c.Points[i] = Point{J: m.J, Value: base * m.Factor}
	}
	return c
}

// check enforces a strictly increasing advance-ratio axis shared by every curve.
func (t Table) check() error {
	first := t.Curves[0].Points
	for i := 1; i < len(first); i++ {
		if first[i].J <= first[i-1].J {
			return broken(t.Name, "advance ratio not increasing at %.2f", first[i].J)
		}
	}
	for _, c := range t.Curves[1:] {
		if len(c.Points) != len(first) {
			return broken(t.Name, "pitch %g has %d points, want %d", c.PitchDeg, len(c.Points), len(first))
		}
		for i, p := range c.Points {
			if p.J != first[i].J {
				return broken(t.Name, "pitch %g does not share the advance ratio axis", c.PitchDeg)
			}
		}
	}
	return nil
}

// Rows flattens the table by advance ratio, one value per curve.
func (t Table) Rows() []Row {
	if len(t.Curves) == 0 {
		return nil
	}
	rows := make([]Row, len(t.Curves[0].Points))
	for i, p := range t.Curves[0].Points {
		rows[i] = Row{J: p.J, Values: make([]float64, len(t.Curves))}
		for k, c := range t.Curves {
			rows[i].Values[k] = c.Points[i].Value
		}
	}
	return rows
}

// Pitches lists the pitch angle of each column, nil for a fixed-pitch table.
func (t Table) Pitches() []float64 {
	if len(t.Curves) < 2 {
		return nil
	}
	out := make([]float64, len(t.Curves))
	for i, c := range t.Curves {
		out[i] = c.PitchDeg
	}
	return out
}

// Governing returns the pitch and rpm range of a constant-speed prop, or nil
// for fixed pitch.
func Governing(mode PitchMode, maxPropRPM float64) *Governor {
	if mode != PitchVariable {
		return nil
	}
	return &Governor{
		MinPitchDeg: finePitchDeg,
		MaxPitchDeg: coarsePitchDeg,
		MinRPM:      maxPropRPM * governorLowFraction,
		MaxRPM:      maxPropRPM,
	}
}
