package audio

import (
	"encoding/binary"
	"fmt"
	"time"
)

// PCM format parameters for provider speech output. The speech models
// return signed 16-bit little-endian mono samples at 24 kHz.
const (
	DefaultSampleRate = 24000
	DefaultChannels   = 1
	BitsPerSample     = 16

	// HeaderSize is the size of the canonical PCM WAV header.
	HeaderSize = 44

	// MIMETypeWAV is the media type of encoded output.
	MIMETypeWAV = "audio/wav"
)

// EncodeWAV wraps raw little-endian signed 16-bit PCM samples in a WAV
// container: the canonical 44-byte RIFF header followed by the sample
// bytes verbatim. The operation is pure framing: no resampling, no
// bit-depth conversion, and deterministic output for identical input.
//
// Callers should pass pcm whose length is a multiple of channels*2 for
// a lossless file; use ValidatePCM to check. EncodeWAV itself only
// rejects parameters that would produce a malformed header.
func EncodeWAV(pcm []byte, sampleRate, channels int) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, ErrEmptyPCM
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	dataSize := len(pcm)
	blockAlign := channels * BitsPerSample / 8
	byteRate := sampleRate * blockAlign

	out := make([]byte, HeaderSize+dataSize)

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(out[20:22], 1)  // linear PCM
	binary.LittleEndian.PutUint16(out[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], BitsPerSample)

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataSize))
	copy(out[HeaderSize:], pcm)

	return out, nil
}

// ValidatePCM checks that PCM data is non-empty and aligned to whole
// sample frames for the given channel count.
func ValidatePCM(pcm []byte, channels int) error {
	if len(pcm) == 0 {
		return ErrEmptyPCM
	}
	if channels <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	frameSize := channels * BitsPerSample / 8
	if len(pcm)%frameSize != 0 {
		return fmt.Errorf("%w: length %d, frame size %d", ErrUnalignedPCM, len(pcm), frameSize)
	}

	return nil
}

// PCMDuration returns the playback duration of raw PCM data in the
// given format. Returns zero for invalid parameters.
func PCMDuration(dataLen, sampleRate, channels int) time.Duration {
	if sampleRate <= 0 || channels <= 0 {
		return 0
	}

	frameSize := channels * BitsPerSample / 8
	frames := dataLen / frameSize
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
