package decode

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"tunesmith/analysis"
)

func decodeVorbis(r io.Reader) (*analysis.SampleBuffer, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptAudio, err)
	}
	if len(data) == 0 || format.Channels < 1 {
		return nil, fmt.Errorf("%w: vorbis stream holds no samples", ErrCorruptAudio)
	}

	samples := make([]float64, len(data))
	for i, v := range data {
		samples[i] = float64(v)
	}

	return &analysis.SampleBuffer{
		Channels:   deinterleave(samples, format.Channels),
		SampleRate: format.SampleRate,
	}, nil
}
