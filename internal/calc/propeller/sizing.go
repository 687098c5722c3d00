package propeller

import "math"

const (
	// RPM·ft at which the blade tip reaches Mach 0.88, static, sea level.
	TipMachRPMFt = 18763.0

	// Sea-level air density, slug/ft³.
	rhoSeaLevel = 0.002378

	ftLbfPerSecPerHP = 550.0

	// Ct0/Cp0 for the reference blade.
	thrustPowerRatio = 0.86

	cp0TwoBladeBelow  = 0.035
	cp0FourBladeAbove = 0.065

	// Blade mass per foot of blade length, slugs. Props shorter than a foot
	// per blade use the toy scaling.
	bladeMassPerFt    = 0.09317
	toyBladeMassPerFt = 0.003
)

type Sizing struct {
	MaxPropRPM float64 `json:"max_prop_rpm"`
	GearRatio  float64 `json:"gear_ratio"`
}

type Coefficients struct {
	CP0             float64 `json:"cp0"`
	CT0             float64 `json:"ct0"`
	StaticThrustLbs float64 `json:"static_thrust_lbs"`
}

// Size finds the tip-Mach-limited static RPM and the engine to prop gear ratio.
func Size(diameterFt, maxEngineRPM float64) (Sizing, error) {
	if err := positive("diameter", diameterFt); err != nil {
		return Sizing{}, err
	}
	if err := positive("max_engine_rpm", maxEngineRPM); err != nil {
		return Sizing{}, err
	}
	maxPropRPM := TipMachRPMFt / diameterFt
	if !(maxPropRPM > 0) || math.IsInf(maxPropRPM, 0) {
		return Sizing{}, invalid("diameter", "gives no usable propeller rpm")
	}
	return Sizing{
		MaxPropRPM: maxPropRPM,
		GearRatio:  maxEngineRPM / maxPropRPM,
	}, nil
}

func DeriveCoefficients(powerHP, maxPropRPM, diameterFt float64) (Coefficients, error) {
	if err := positive("engine_power", powerHP); err != nil {
		return Coefficients{}, err
	}
	if err := positive("max_prop_rpm", maxPropRPM); err != nil {
		return Coefficients{}, err
	}
	if err := positive("diameter", diameterFt); err != nil {
		return Coefficients{}, err
	}

	rps := maxPropRPM / 60.0
	rps2 := rps * rps
	d4 := math.Pow(diameterFt, 4)

	// Cp = P / (rho n^3 D^5)
	cp0 := powerHP * ftLbfPerSecPerHP / (rhoSeaLevel * rps2 * rps * d4 * diameterFt)
	ct0 := cp0 * thrustPowerRatio

	return Coefficients{
		CP0:             cp0,
		CT0:             ct0,
		StaticThrustLbs: ct0 * rhoSeaLevel * rps2 * d4,
	}, nil
}

func BladeCount(cp0 float64) int {
	switch {
	case cp0 < cp0TwoBladeBelow:
		return 2
	case cp0 > cp0FourBladeAbove:
		return 4
	default:
		return 3
	}
}

// MomentOfInertia treats each blade as a slender rod turning about its root.
func MomentOfInertia(diameterFt float64, blades int) float64 {
	length := diameterFt / 2
	mass := length * bladeMassPerFt
	if length < 1 {
		mass = length * toyBladeMassPerFt
	}
	return float64(blades) * (mass * length * length / 3.0)
}
