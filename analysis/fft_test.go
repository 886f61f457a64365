package analysis

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/mjibson/go-dsp/fft"
)

func TestMagnitudeSpectrumZeroFrame(t *testing.T) {
	t.Parallel()

	for _, size := range []int{2, 8, 256, 2048} {
		frame := make([]float64, size)
		magnitude, err := MagnitudeSpectrum(frame)
		if err != nil {
			t.Fatalf("MagnitudeSpectrum(%d zeros) returned error: %v", size, err)
		}
		if len(magnitude) != size {
			t.Fatalf("spectrum length = %d, expected %d", len(magnitude), size)
		}
		for i, m := range magnitude {
			if m != 0 {
				t.Errorf("size %d: bin %d = %g, expected 0", size, i, m)
			}
		}
	}
}

func TestMagnitudeSpectrumImpulse(t *testing.T) {
	t.Parallel()

	frame := make([]float64, 64)
	frame[0] = 1
	magnitude, err := MagnitudeSpectrum(frame)
	if err != nil {
		t.Fatalf("MagnitudeSpectrum returned error: %v", err)
	}
	// a unit impulse has a flat spectrum of magnitude 1 in every bin
	for i, m := range magnitude {
		if math.Abs(m-1) > 1e-9 {
			t.Errorf("bin %d = %g, expected 1", i, m)
		}
	}
}

func TestMagnitudeSpectrumSineDominantBin(t *testing.T) {
	t.Parallel()

	const (
		sampleRate = 44100
		frameSize  = 4096
		freq       = 440.0
	)

	frame := make([]float64, frameSize)
	for i := range frame {
		frame[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}

	magnitude, err := MagnitudeSpectrum(frame)
	if err != nil {
		t.Fatalf("MagnitudeSpectrum returned error: %v", err)
	}

	peakBin := 0
	peak := 0.0
	for i := 0; i < frameSize/2; i++ {
		if magnitude[i] > peak {
			peak = magnitude[i]
			peakBin = i
		}
	}

	binWidth := float64(sampleRate) / frameSize
	peakFreq := float64(peakBin) * binWidth
	if math.Abs(peakFreq-freq) > binWidth {
		t.Errorf("dominant bin at %.1f Hz, expected within %.1f Hz of %.1f", peakFreq, binWidth, freq)
	}
}

// The hand-rolled iterative transform must agree with a reference FFT.
func TestMagnitudeSpectrumMatchesReference(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	frame := make([]float64, 1024)
	for i := range frame {
		frame[i] = rng.Float64()*2 - 1
	}

	magnitude, err := MagnitudeSpectrum(frame)
	if err != nil {
		t.Fatalf("MagnitudeSpectrum returned error: %v", err)
	}

	reference := fft.FFTReal(frame)
	for i := range magnitude {
		want := cmplx.Abs(reference[i])
		if math.Abs(magnitude[i]-want) > 1e-6*(1+want) {
			t.Fatalf("bin %d: got %g, reference %g", i, magnitude[i], want)
		}
	}
}

func TestMagnitudeSpectrumRejectsNonPowerOfTwo(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 3, 100, 1000} {
		_, err := MagnitudeSpectrum(make([]float64, size))
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("size %d: expected ErrInvalidInput, got %v", size, err)
		}
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n        int
		expected bool
	}{
		{-8, false},
		{0, false},
		{1, true},
		{2, true},
		{3, false},
		{1024, true},
		{1000, false},
	}
	for _, tt := range tests {
		if got := isPowerOfTwo(tt.n); got != tt.expected {
			t.Errorf("isPowerOfTwo(%d) = %v, expected %v", tt.n, got, tt.expected)
		}
	}
}
