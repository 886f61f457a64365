package decode

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"tunesmith/analysis"
)

// WriteWAV encodes a sample buffer as 16-bit PCM WAV at the given path. Used
// by the mock generator and by test fixtures; samples outside [-1, 1] are
// clipped.
func WriteWAV(path string, buf *analysis.SampleBuffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()

	channels := buf.NumChannels()
	frames := buf.NumSamples()

	data := make([]int, frames*channels)
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			v := buf.Channels[c][i]
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			data[i*channels+c] = int(v * 32767)
		}
	}

	enc := wav.NewEncoder(out, buf.SampleRate, 16, channels, 1)
	intBuf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: buf.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(intBuf); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav file: %w", err)
	}
	return nil
}
