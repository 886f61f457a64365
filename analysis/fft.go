package analysis

// Fast Fourier Transform (FFT)
//
// This file implements the radix-2 decimation-in-time Cooley-Tukey FFT as an
// iterative, in-place transform over a real-valued frame:
//
// 1. The frame is expanded into separate real/imaginary arrays with all
//    imaginary parts zero.
// 2. A bit-reversal permutation reorders the samples: for every index i the
//    partner index j is obtained by reversing the bits of i within log2(N)
//    bits, and the entries at i and j are swapped when i < j.
// 3. Butterfly stages run with the stage size doubling from 2 to N. Each
//    stage starts from the twiddle factor cos/sin(-2π/stageSize) and advances
//    it by one step of the complex recurrence per butterfly, combining the
//    even and odd halves via u = top, v = bottom × twiddle,
//    top = u + v, bottom = u − v.
// 4. The magnitude of each bin is sqrt(real² + imag²).
//
// No window function is applied before transforming, so tones that do not
// fall exactly on a bin leak energy into neighbouring bins. That is a known
// precision limitation of this transform, not something callers should work
// around here.

import (
	"fmt"
	"math"
	"math/bits"
)

// MagnitudeSpectrum computes the magnitude spectrum of a single frame. The
// frame length must be a positive power of two; the full mirrored spectrum is
// returned, so the result has the same length as the frame.
func MagnitudeSpectrum(frame []float64) ([]float64, error) {
	n := len(frame)
	if !isPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: frame length must be a positive power of two, got %d", ErrInvalidInput, n)
	}

	re := make([]float64, n)
	im := make([]float64, n)
	copy(re, frame)

	// bit-reversal permutation
	shift := bits.UintSize - uint(intLog2(n))
	for i := 0; i < n; i++ {
		j := int(bits.Reverse(uint(i)) >> shift)
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		angle := -2 * math.Pi / float64(size)
		stepRe := math.Cos(angle)
		stepIm := math.Sin(angle)

		for start := 0; start < n; start += size {
			wRe, wIm := 1.0, 0.0
			for k := 0; k < half; k++ {
				top := start + k
				bottom := top + half

				vRe := re[bottom]*wRe - im[bottom]*wIm
				vIm := re[bottom]*wIm + im[bottom]*wRe

				re[bottom] = re[top] - vRe
				im[bottom] = im[top] - vIm
				re[top] += vRe
				im[top] += vIm

				wRe, wIm = wRe*stepRe-wIm*stepIm, wRe*stepIm+wIm*stepRe
			}
		}
	}

	magnitude := make([]float64, n)
	for i := range magnitude {
		magnitude[i] = math.Sqrt(re[i]*re[i] + im[i]*im[i])
	}
	return magnitude, nil
}

// isPowerOfTwo reports whether n is a positive power of two. Powers of two
// have exactly one bit set, so n & (n-1) clears it.
func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// intLog2 returns log2(n) for a power-of-two n.
func intLog2(n int) int {
	return bits.TrailingZeros(uint(n))
}
