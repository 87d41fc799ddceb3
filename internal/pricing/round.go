package pricing

import "math"

// epsilon is the gap between 1.0 and the next representable float64. It is
// added before scaling so values such as 1.005 round up on the cent boundary.
const epsilon = 0x1p-52

// Round2 rounds half up to two decimal places.
func Round2(x float64) float64 {
	return roundHalfUp((x+epsilon)*100) / 100
}

// RoundWhole rounds half up to the nearest whole currency unit.
func RoundWhole(x float64) float64 {
	return roundHalfUp(x)
}

// roundHalfUp rounds ties toward +Inf, so -2.5 becomes -2.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
