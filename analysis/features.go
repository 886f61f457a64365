package analysis

// Audio Feature Extraction
//
// This package computes a compact set of descriptors from an in-memory
// decoded audio buffer:
//
//   - Spectral Centroid: energy-weighted mean frequency, a brightness proxy.
//     Averaged over overlapping frames; silent frames are excluded entirely.
//   - Zero-Crossing Rate: fraction of adjacent-sample sign changes across the
//     whole channel, a noisiness/pitch proxy.
//   - Mel Coefficients: a fixed-length vector of perceptual-scale (mel)
//     positions derived from the first frame's spectrum. This deliberately is
//     NOT a full MFCC pipeline: no mel filterbank, no log energy and no DCT
//     are applied, and only the first frame is analyzed.
//   - Polyphony: a heuristic flag raised when enough frames carry more than
//     three prominent spectral peaks.
//
// Multi-channel buffers are analyzed on channel 0 only. Every function is a
// pure computation over its input and safe for concurrent callers; each call
// allocates only its own transient frame and spectrum buffers.

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Default analysis parameters. Passing 0 for a frame, hop or coefficient
// count selects the default.
const (
	DefaultFrameSize            = 2048
	DefaultHopSize              = 512
	DefaultCoefficientFrameSize = 1024
	DefaultCoefficientCount     = 13

	// BitDepth is reported in FeatureResult. Decoded buffers are treated as
	// 16-bit PCM regardless of their container's original depth.
	BitDepth = 16
)

// Config bundles the per-function analysis parameters. The zero value of any
// field selects the default.
type Config struct {
	FrameSize            int
	HopSize              int
	CoefficientFrameSize int
	CoefficientHopSize   int
	CoefficientCount     int
}

// DefaultConfig returns the default analysis parameters.
func DefaultConfig() Config {
	return Config{
		FrameSize:            DefaultFrameSize,
		HopSize:              DefaultHopSize,
		CoefficientFrameSize: DefaultCoefficientFrameSize,
		CoefficientHopSize:   DefaultHopSize,
		CoefficientCount:     DefaultCoefficientCount,
	}
}

// FeatureResult aggregates every descriptor plus the format fields a
// higher-level caller needs to present the analysis.
type FeatureResult struct {
	SpectralCentroid float64   `json:"spectralCentroid"`
	ZeroCrossingRate float64   `json:"zeroCrossingRate"`
	Coefficients     []float64 `json:"coefficients"`
	Polyphonic       bool      `json:"polyphonic"`
	SampleRate       int       `json:"sampleRate"`
	Channels         int       `json:"channels"`
	BitDepth         int       `json:"bitDepth"`
	Duration         float64   `json:"duration"`
}

// Analyze runs every extractor over the buffer and returns the aggregate
// result. A zero-value Config selects all defaults.
func Analyze(buf *SampleBuffer, cfg Config) (*FeatureResult, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	centroid, err := SpectralCentroid(buf, cfg.FrameSize, cfg.HopSize)
	if err != nil {
		return nil, err
	}
	zcr, err := ZeroCrossingRate(buf)
	if err != nil {
		return nil, err
	}
	coefficients, err := MelCoefficients(buf, cfg.CoefficientFrameSize, cfg.CoefficientHopSize, cfg.CoefficientCount)
	if err != nil {
		return nil, err
	}
	polyphonic, err := DetectPolyphony(buf, cfg.FrameSize, cfg.HopSize)
	if err != nil {
		return nil, err
	}

	return &FeatureResult{
		SpectralCentroid: centroid,
		ZeroCrossingRate: zcr,
		Coefficients:     coefficients,
		Polyphonic:       polyphonic,
		SampleRate:       buf.SampleRate,
		Channels:         buf.NumChannels(),
		BitDepth:         BitDepth,
		Duration:         buf.Duration(),
	}, nil
}

// SpectralCentroid returns the mean per-frame spectral centroid in Hz over
// channel 0. Frames advance by hopSize until fewer than a full frame remains.
// Only the first half of the bins (below Nyquist) contributes; frames whose
// magnitude sum is zero are excluded from the average. Returns 0 when no
// frame produced a usable centroid.
func SpectralCentroid(buf *SampleBuffer, frameSize, hopSize int) (float64, error) {
	if err := buf.Validate(); err != nil {
		return 0, err
	}
	frameSize, hopSize, err := frameParams(frameSize, hopSize, DefaultFrameSize)
	if err != nil {
		return 0, err
	}

	samples := buf.Channels[0]
	var centroids []float64

	for start := 0; start+frameSize <= len(samples); start += hopSize {
		magnitude, err := MagnitudeSpectrum(samples[start : start+frameSize])
		if err != nil {
			return 0, err
		}

		half := len(magnitude) / 2
		var weighted, total float64
		for i := 0; i < half; i++ {
			freq := float64(i) * float64(buf.SampleRate) / float64(frameSize)
			weighted += freq * magnitude[i]
			total += magnitude[i]
		}
		if total == 0 {
			continue // silent frame, excluded entirely
		}
		centroids = append(centroids, weighted/total)
	}

	if len(centroids) == 0 {
		return 0, nil
	}
	return stat.Mean(centroids, nil), nil
}

// ZeroCrossingRate returns the fraction of adjacent-sample sign changes on
// channel 0, in [0, 1]. A crossing is any index whose "sample >= 0" boolean
// differs from its predecessor's.
func ZeroCrossingRate(buf *SampleBuffer) (float64, error) {
	if err := buf.Validate(); err != nil {
		return 0, err
	}

	samples := buf.Channels[0]
	if len(samples) < 2 {
		return 0, nil
	}

	crossings := 0
	previous := samples[0] >= 0
	for i := 1; i < len(samples); i++ {
		current := samples[i] >= 0
		if current != previous {
			crossings++
		}
		previous = current
	}
	return float64(crossings) / float64(len(samples)-1), nil
}

// MelCoefficients returns a fixed-length vector of mel-scale positions
// computed from the first frame of channel 0. Coefficient k maps the linear
// frequency k·sampleRate/spectrumLength through mel(f) = 2595·log10(1+f/700).
// Signals shorter than one frame are zero-padded. Only the first frame is
// analyzed; the vector is presented as the whole-signal descriptor.
func MelCoefficients(buf *SampleBuffer, frameSize, hopSize, count int) ([]float64, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	frameSize, _, err := frameParams(frameSize, hopSize, DefaultCoefficientFrameSize)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		count = DefaultCoefficientCount
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: coefficient count must be positive, got %d", ErrInvalidInput, count)
	}

	frame := make([]float64, frameSize)
	copy(frame, buf.Channels[0])

	magnitude, err := MagnitudeSpectrum(frame)
	if err != nil {
		return nil, err
	}

	coefficients := make([]float64, count)
	for k := range coefficients {
		freq := float64(k) * float64(buf.SampleRate) / float64(len(magnitude))
		coefficients[k] = hzToMel(freq)
	}
	return coefficients, nil
}

// DetectPolyphony reports whether channel 0 likely carries multiple
// simultaneous dominant frequency components. A frame counts as polyphonic
// when more than three interior bins exceed 10% of the frame's maximum
// magnitude while being strictly greater than both neighbours; the overall
// flag is raised when more than 30% of frames are polyphonic. Zero frames
// yield false.
func DetectPolyphony(buf *SampleBuffer, frameSize, hopSize int) (bool, error) {
	if err := buf.Validate(); err != nil {
		return false, err
	}
	frameSize, hopSize, err := frameParams(frameSize, hopSize, DefaultFrameSize)
	if err != nil {
		return false, err
	}

	samples := buf.Channels[0]
	frames, polyphonicFrames := 0, 0

	for start := 0; start+frameSize <= len(samples); start += hopSize {
		magnitude, err := MagnitudeSpectrum(samples[start : start+frameSize])
		if err != nil {
			return false, err
		}
		frames++

		maxMagnitude := 0.0
		for _, m := range magnitude {
			if m > maxMagnitude {
				maxMagnitude = m
			}
		}
		threshold := 0.1 * maxMagnitude

		peaks := 0
		for i := 1; i < len(magnitude)-1; i++ {
			if magnitude[i] > threshold && magnitude[i] > magnitude[i-1] && magnitude[i] > magnitude[i+1] {
				peaks++
			}
		}
		if peaks > 3 {
			polyphonicFrames++
		}
	}

	if frames == 0 {
		return false, nil
	}
	return float64(polyphonicFrames)/float64(frames) > 0.3, nil
}

// hzToMel maps a linear frequency in Hz onto the perceptual mel scale.
func hzToMel(freq float64) float64 {
	return 2595 * math.Log10(1+freq/700)
}

// frameParams resolves defaults and validates frame and hop sizes.
func frameParams(frameSize, hopSize, defaultFrame int) (int, int, error) {
	if frameSize == 0 {
		frameSize = defaultFrame
	}
	if hopSize == 0 {
		hopSize = DefaultHopSize
	}
	if !isPowerOfTwo(frameSize) {
		return 0, 0, fmt.Errorf("%w: frame size must be a positive power of two, got %d", ErrInvalidInput, frameSize)
	}
	if hopSize < 0 {
		return 0, 0, fmt.Errorf("%w: hop size must be positive, got %d", ErrInvalidInput, hopSize)
	}
	return frameSize, hopSize, nil
}
