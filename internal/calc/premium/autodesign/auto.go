package autodesign

import (
	"math"

	"Propmatic/internal/calc/propeller"
)

type DirectDriveInput struct {
	EnginePower  float64             `json:"engine_power"`
	EngineUnits  propeller.PowerUnit `json:"engine_units"`
	MaxEngineRPM float64             `json:"max_engine_rpm"`
	PitchMode    propeller.PitchMode `json:"prop_pitch"`
}

type DirectDriveResult struct {
	DiameterIn float64        `json:"diameter_in"`
	Spec       propeller.Spec `json:"spec"`
	Notes      string         `json:"notes"`
}

// DirectDrive picks the largest whole-inch diameter that can turn at engine
// speed without exceeding the tip Mach limit, so no reduction gearbox is needed.
func DirectDrive(in DirectDriveInput) (DirectDriveResult, error) {
	if in.MaxEngineRPM <= 0 || math.IsNaN(in.MaxEngineRPM) || math.IsInf(in.MaxEngineRPM, 0) {
		return DirectDriveResult{}, &propeller.ValidationError{Field: "max_engine_rpm", Reason: "must be greater than zero"}
	}
	inches := math.Floor(propeller.TipMachRPMFt / in.MaxEngineRPM * 12)
	if inches < 1 {
		return DirectDriveResult{}, &propeller.ValidationError{Field: "max_engine_rpm", Reason: "too high for any direct drive propeller"}
	}
	spec, err := propeller.Calculate(propeller.Request{
		EnginePower:   in.EnginePower,
		EngineUnits:   in.EngineUnits,
		MaxEngineRPM:  in.MaxEngineRPM,
		PitchMode:     in.PitchMode,
		Diameter:      inches,
		DiameterUnits: propeller.DiameterIn,
	})
	if err != nil {
		return DirectDriveResult{}, err
	}
	return DirectDriveResult{
		DiameterIn: inches,
		Spec:       spec,
		Notes:      "Largest whole-inch diameter for a gear ratio of at most 1.",
	}, nil
}
