// Package decode turns uploaded audio files into analysis.SampleBuffer
// values. Supported containers are WAV (PCM), MP3 and Ogg Vorbis; the format
// is sniffed from the file's magic bytes, so callers never have to trust a
// file extension or MIME type from the browser.
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"tunesmith/analysis"
)

// Format identifies a supported container/codec.
type Format string

const (
	FormatWAV       Format = "wav"
	FormatMP3       Format = "mp3"
	FormatOggVorbis Format = "ogg"
)

var (
	// ErrUnknownFormat is returned when the payload matches no supported
	// container signature.
	ErrUnknownFormat = errors.New("unrecognized audio format")
	// ErrCorruptAudio is returned when the container was recognized but its
	// contents could not be decoded.
	ErrCorruptAudio = errors.New("corrupt audio data")
)

// DetectFormat sniffs the container from the payload's leading bytes.
func DetectFormat(data []byte) (Format, error) {
	if len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")) {
		return FormatWAV, nil
	}
	if len(data) >= 4 && bytes.Equal(data[:4], []byte("OggS")) {
		return FormatOggVorbis, nil
	}
	if len(data) >= 3 && bytes.Equal(data[:3], []byte("ID3")) {
		return FormatMP3, nil
	}
	// raw MPEG audio frame sync: 11 set bits
	if len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0 {
		return FormatMP3, nil
	}
	return "", ErrUnknownFormat
}

// Bytes decodes an in-memory audio file into a sample buffer.
func Bytes(data []byte) (*analysis.SampleBuffer, error) {
	format, err := DetectFormat(data)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatWAV:
		return decodeWAV(bytes.NewReader(data))
	case FormatMP3:
		return decodeMP3(bytes.NewReader(data))
	case FormatOggVorbis:
		return decodeVorbis(bytes.NewReader(data))
	default:
		return nil, ErrUnknownFormat
	}
}

// File decodes an audio file from disk.
func File(path string) (*analysis.SampleBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Bytes(data)
}

// deinterleave splits interleaved per-frame samples into one slice per
// channel.
func deinterleave(samples []float64, channels int) [][]float64 {
	if channels < 1 {
		channels = 1
	}
	frames := len(samples) / channels
	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			out[c][i] = samples[i*channels+c]
		}
	}
	return out
}
