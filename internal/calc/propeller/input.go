package propeller

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type PowerUnit int

const (
	PowerHP PowerUnit = 0
	PowerKW PowerUnit = 1
)

type DiameterUnit int

const (
	DiameterFt DiameterUnit = 0
	DiameterIn DiameterUnit = 1
	DiameterM  DiameterUnit = 2
)

type PitchMode int

const (
	PitchFixed    PitchMode = 0
	PitchVariable PitchMode = 1
)

const (
	kwToHP  = 1.341
	inPerFt = 12.0
	mToFt   = 3.281
)

// Request carries the six fields supplied by the authoring tool.
type Request struct {
	EnginePower   float64      `json:"engine_power"`
	EngineUnits   PowerUnit    `json:"engine_units"`
	MaxEngineRPM  float64      `json:"max_engine_rpm"`
	PitchMode     PitchMode    `json:"prop_pitch"`
	Diameter      float64      `json:"diameter"`
	DiameterUnits DiameterUnit `json:"diameter_units"`
}

// Input is a Request after unit normalization: horsepower and feet.
type Input struct {
	EnginePowerHP float64   `json:"engine_power_hp"`
	MaxEngineRPM  float64   `json:"max_engine_rpm"`
	DiameterFt    float64   `json:"diameter_ft"`
	Pitch         PitchMode `json:"pitch_mode"`
}

func Normalize(req Request) (Input, error) {
	hp, err := NormalizePower(req.EnginePower, req.EngineUnits)
	if err != nil {
		return Input{}, err
	}
	ft, err := NormalizeDiameter(req.Diameter, req.DiameterUnits)
	if err != nil {
		return Input{}, err
	}
	if err := positive("max_engine_rpm", req.MaxEngineRPM); err != nil {
		return Input{}, err
	}
	if !req.PitchMode.valid() {
		return Input{}, invalid("prop_pitch", fmt.Sprintf("unknown pitch mode %d", int(req.PitchMode)))
	}
	return Input{
		EnginePowerHP: hp,
		MaxEngineRPM:  req.MaxEngineRPM,
		DiameterFt:    ft,
		Pitch:         req.PitchMode,
	}, nil
}

// NormalizePower returns engine power in horsepower.
func NormalizePower(v float64, u PowerUnit) (float64, error) {
	var hp float64
	switch u {
	case PowerHP:
		hp = v
	case PowerKW:
		hp = v * kwToHP
	default:
		return 0, invalid("engine_units", fmt.Sprintf("unknown power unit %d", int(u)))
	}
	if err := positive("engine_power", hp); err != nil {
		return 0, err
	}
	return hp, nil
}

// NormalizeDiameter returns propeller diameter in feet.
func NormalizeDiameter(v float64, u DiameterUnit) (float64, error) {
	var ft float64
	switch u {
	case DiameterFt:
		ft = v
	case DiameterIn:
		ft = v / inPerFt
	case DiameterM:
		ft = v * mToFt
	default:
		return 0, invalid("diameter_units", fmt.Sprintf("unknown diameter unit %d", int(u)))
	}
	if err := positive("diameter", ft); err != nil {
		return 0, err
	}
	return ft, nil
}

func positive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, "not a finite number")
	}
	if v <= 0 {
		return invalid(field, "must be greater than zero")
	}
	return nil
}

func (u PowerUnit) String() string {
	switch u {
	case PowerHP:
		return "HP"
	case PowerKW:
		return "KW"
	}
	return fmt.Sprintf("PowerUnit(%d)", int(u))
}

func (u DiameterUnit) String() string {
	switch u {
	case DiameterFt:
		return "FT"
	case DiameterIn:
		return "IN"
	case DiameterM:
		return "M"
	}
	return fmt.Sprintf("DiameterUnit(%d)", int(u))
}

func (m PitchMode) String() string {
	switch m {
	case PitchFixed:
		return "fixed"
	case PitchVariable:
		return "variable"
	}
	return fmt.Sprintf("PitchMode(%d)", int(m))
}

func (m PitchMode) valid() bool {
	return m == PitchFixed || m == PitchVariable
}

// ParsePowerUnit accepts "hp", "kw" or the numeric wire value.
func ParsePowerUnit(s string) (PowerUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hp", "0":
		return PowerHP, nil
	case "kw", "1":
		return PowerKW, nil
	}
	return 0, invalid("engine_units", fmt.Sprintf("unknown power unit %q", s))
}

// ParseDiameterUnit accepts "ft", "in", "m" or the numeric wire value.
func ParseDiameterUnit(s string) (DiameterUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ft", "feet", "0":
		return DiameterFt, nil
	case "in", "inch", "inches", "1":
		return DiameterIn, nil
	case "m", "meters", "metres", "2":
		return DiameterM, nil
	}
	return 0, invalid("diameter_units", fmt.Sprintf("unknown diameter unit %q", s))
}

// ParsePitchMode accepts "fixed", "variable" or the numeric wire value.
func ParsePitchMode(s string) (PitchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "0":
		return PitchFixed, nil
	case "variable", "1":
		return PitchVariable, nil
	}
	return 0, invalid("prop_pitch", fmt.Sprintf("unknown pitch mode %q", s))
}

func (u *PowerUnit) UnmarshalJSON(b []byte) error {
	s, err := enumText(b)
	if err != nil {
		return invalid("engine_units", err.Error())
	}
	v, err := ParsePowerUnit(s)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

func (u *DiameterUnit) UnmarshalJSON(b []byte) error {
	s, err := enumText(b)
	if err != nil {
		return invalid("diameter_units", err.Error())
	}
	v, err := ParseDiameterUnit(s)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

func (m *PitchMode) UnmarshalJSON(b []byte) error {
	s, err := enumText(b)
	if err != nil {
		return invalid("prop_pitch", err.Error())
	}
	v, err := ParsePitchMode(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// enumText returns the token as text whether it was sent as a number or a string.
func enumText(b []byte) (string, error) {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", fmt.Errorf("expected a number or a name, got %s", string(b))
	}
	return n.String(), nil
}
