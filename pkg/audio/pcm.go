package audio

// ResampleLinear converts PCM for a single channel between sample rates using
// linear interpolation. Arbitrary ratios are supported; the output length is
// len(src)*dstRate/srcRate.
func ResampleLinear(src []int16, srcRate, dstRate int) []int16 {
	if len(src) == 0 || srcRate <= 0 || dstRate <= 0 {
		return nil
	}
	if srcRate == dstRate {
		dst := make([]int16, len(src))
		copy(dst, src)

		return dst
	}

	n := len(src) * dstRate / srcRate
	dst := make([]int16, n)
	for i := range dst {
		// Position of output sample i in the source, fixed-point by srcRate.
		pos := i * srcRate
		j := pos / dstRate
		frac := pos % dstRate

		a := src[j]
		b := a
		if j+1 < len(src) {
			b = src[j+1]
		}

		dst[i] = int16(int64(a) + (int64(b)-int64(a))*int64(frac)/int64(dstRate))
	}

	return dst
}

// MonoToStereo duplicates each sample across both channels.
func MonoToStereo(m []int16) []int16 {
	dst := make([]int16, len(m)*2)
	for i, v := range m {
		dst[2*i], dst[2*i+1] = v, v
	}

	return dst
}

// Deinterleave splits interleaved stereo PCM into left and right channels.
func Deinterleave(st []int16) ([]int16, []int16) {
	n := len(st) / 2
	left := make([]int16, n)
	right := make([]int16, n)
	for i := 0; i < n; i++ {
		left[i] = st[2*i]
		right[i] = st[2*i+1]
	}

	return left, right
}

// Interleave merges left and right channels into interleaved stereo PCM.
// The channels must be the same length.
func Interleave(left, right []int16) []int16 {
	dst := make([]int16, len(left)*2)
	for i := range left {
		dst[2*i], dst[2*i+1] = left[i], right[i]
	}

	return dst
}
