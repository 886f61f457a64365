package decode

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"tunesmith/analysis"
)

func decodeMP3(r io.Reader) (*analysis.SampleBuffer, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptAudio, err)
	}

	// go-mp3 always emits 16-bit little-endian stereo PCM
	const channels = 2
	var samples []float64
	buf := make([]byte, 8192)
	for {
		n, err := dec.Read(buf)
		for i := 0; i+1 < n; i += 2 {
			v := int16(uint16(buf[i]) | uint16(buf[i+1])<<8)
			samples = append(samples, float64(v)/32768.0)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptAudio, err)
		}
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: mp3 stream holds no samples", ErrCorruptAudio)
	}

	return &analysis.SampleBuffer{
		Channels:   deinterleave(samples, channels),
		SampleRate: dec.SampleRate(),
	}, nil
}
