package audio

import "math"

// QuantizePCM16 converts floating-point amplitudes to signed 16-bit PCM.
// Values are clipped to [-1, 1] first. The scaling is asymmetric on purpose:
// negative values map onto [-32768, 0) and non-negative ones onto [0, 32767],
// matching the two's-complement convention the backend decodes.
func QuantizePCM16(in []float32) []int16 {
	out := make([]int16, len(in))
	for i, s := range in {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}

		if s < 0 {
			out[i] = int16(math.Round(float64(s) * 32768))
		} else {
			out[i] = int16(math.Round(float64(s) * 32767))
		}
	}
	return out
}
