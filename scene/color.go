package scene

import (
	"math"

	"github.com/achilleasa/go-spheretrace/types"
)

// Clamp range for color channels prior to quantization; keeps 256*x below 256.
var intensity = types.Interval{Min: 0.0, Max: 0.999}

// Apply the square-root tone curve (gamma 2).
func LinearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// Gamma-correct, clamp and quantize a linear color to 8-bit channels.
func ToRGB8(c types.Vec3) [3]uint8 {
	return [3]uint8{
		uint8(256 * intensity.Clamp(LinearToGamma(c[0]))),
		uint8(256 * intensity.Clamp(LinearToGamma(c[1]))),
		uint8(256 * intensity.Clamp(LinearToGamma(c[2]))),
	}
}
