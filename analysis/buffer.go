package analysis

import "fmt"

// SampleBuffer is a read-only view of decoded audio: one array of float64
// amplitudes in [-1, 1] per channel plus the sample rate in Hz. All channels
// must have the same length. The analysis functions borrow the buffer for the
// duration of a single call and never retain a reference.
type SampleBuffer struct {
	Channels   [][]float64
	SampleRate int
}

// NumChannels returns the channel count.
func (b *SampleBuffer) NumChannels() int {
	return len(b.Channels)
}

// NumSamples returns the per-channel sample count.
func (b *SampleBuffer) NumSamples() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the buffer length in seconds.
func (b *SampleBuffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.NumSamples()) / float64(b.SampleRate)
}

// Validate reports whether the buffer satisfies the invariants every analysis
// function relies on: at least one non-empty channel, all channels of equal
// length and a positive sample rate.
func (b *SampleBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil sample buffer", ErrInvalidInput)
	}
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidInput, b.SampleRate)
	}
	if len(b.Channels) == 0 {
		return fmt.Errorf("%w: no channel data", ErrInvalidInput)
	}
	length := len(b.Channels[0])
	if length == 0 {
		return fmt.Errorf("%w: empty channel data", ErrInvalidInput)
	}
	for i, ch := range b.Channels {
		if len(ch) != length {
			return fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				ErrInvalidInput, i, len(ch), length)
		}
	}
	return nil
}
