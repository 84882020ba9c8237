package domain

import "math"

// CalculateVolume returns the cubic volume in m³ of quantityPcs logs with the
// given diameter range and length, rounded to 3 decimals.
//
// Non-positive inputs and an inverted diameter range yield 0.
func CalculateVolume(diameterFromCm, diameterToCm, lengthM float64, quantityPcs int) float64 {
	if diameterFromCm <= 0 || diameterToCm <= 0 || lengthM <= 0 || quantityPcs <= 0 {
		return 0
	}
	if diameterFromCm > diameterToCm {
		return 0
	}

	// Average diameter in cm -> radius in m.
	radiusM := (diameterFromCm + diameterToCm) / 200 / 2
	perPiece := math.Pi * radiusM * radiusM * lengthM

	return RoundTo(perPiece*float64(quantityPcs), 3)
}

// RoundTo rounds v half away from zero to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
