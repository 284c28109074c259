package audio

// Resample converts samples from inRate to outRate by nearest-neighbor
// selection. No filtering or interpolation is applied; for the 48k -> 16k
// wire path this is a plain keep-every-third decimation, which is what the
// backend expects.
func Resample(in []float32, inRate, outRate int) []float32 {
	if len(in) == 0 {
		return nil
	}

	ratio := float64(inRate) / float64(outRate)
	outLen := int(float64(len(in)) / ratio)
	out := make([]float32, outLen)

	for i := range out {
		out[i] = in[int(float64(i)*ratio)]
	}

	return out
}
