package audio

import "errors"

// Common errors for the audio package.
var (
	// ErrEmptyPCM is returned when the encoder is given no sample data.
	ErrEmptyPCM = errors.New("empty PCM data")

	// ErrInvalidSampleRate is returned for a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("invalid sample rate")

	// ErrInvalidChannels is returned for a non-positive channel count.
	ErrInvalidChannels = errors.New("invalid number of channels")

	// ErrUnalignedPCM is returned by ValidatePCM when the data length is
	// not a whole number of sample frames.
	ErrUnalignedPCM = errors.New("PCM data not aligned to sample frames")

	// ErrClipReleased is returned when reading a clip whose underlying
	// buffer has already been released.
	ErrClipReleased = errors.New("audio clip has been released")
)
