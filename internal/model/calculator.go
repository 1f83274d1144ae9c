package model

import "math"

// steelDensity is the density of structural steel in kg/m³.
const steelDensity = 7850.0

// MassKg returns the mass in kg of a length (mm) of a profile weighing
// kgPerMeter. Negative inputs yield zero.
func MassKg(lengthMM int, kgPerMeter float64) float64 {
	if lengthMM <= 0 || kgPerMeter <= 0 {
		return 0
	}
	return float64(lengthMM) / 1000.0 * kgPerMeter
}

// WeightFromArea estimates kg/m from a cross-section area in mm².
// Used when a custom catalog entry omits its weight.
func WeightFromArea(areaMM2 float64) float64 {
	if areaMM2 <= 0 {
		return 0
	}
	// mm² -> m² is 1e-6; one metre of length.
	return math.Round(areaMM2*1e-6*steelDensity*10) / 10
}
