package decode

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"tunesmith/analysis"
)

func decodeWAV(r io.ReadSeeker) (*analysis.SampleBuffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid wav file", ErrCorruptAudio)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptAudio, err)
	}
	if pcm.Format == nil || len(pcm.Data) == 0 {
		return nil, fmt.Errorf("%w: wav file holds no samples", ErrCorruptAudio)
	}

	bitDepth := pcm.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = int(dec.BitDepth)
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: unsupported wav bit depth %d", ErrCorruptAudio, bitDepth)
	}
	scale := float64(int64(1) << (bitDepth - 1))

	samples := make([]float64, len(pcm.Data))
	for i, v := range pcm.Data {
		samples[i] = float64(v) / scale
	}

	return &analysis.SampleBuffer{
		Channels:   deinterleave(samples, pcm.Format.NumChannels),
		SampleRate: pcm.Format.SampleRate,
	}, nil
}
