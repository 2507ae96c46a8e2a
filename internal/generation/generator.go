package generation

import (
	"context"
)

// SpeechRequest carries one generation call's parameters. VoiceID and
// ModelID are forwarded opaquely to the provider; APIKey is the user's
// decrypted provider credential for this single call.
type SpeechRequest struct {
	// Text is the full prompt, including any style instruction the
	// caller has already prefixed.
	Text string

	// VoiceID selects the prebuilt provider voice.
	VoiceID string

	// ModelID selects the provider speech model.
	ModelID string

	// APIKey authenticates the call against the provider.
	APIKey string
}

// SpeechResult is the provider's successful response: raw signed 16-bit
// little-endian PCM plus its format parameters. Any wire-level encoding
// (the provider delivers audio base64-embedded in a structured
// response) is undone by the adapter; callers always receive raw bytes.
type SpeechResult struct {
	PCM        []byte
	SampleRate int
	Channels   int
}

// SpeechGenerator defines the interface for turning text into speech
// audio. This interface is the boundary between the queue processor and
// the external provider, following the hexagonal architecture pattern.
type SpeechGenerator interface {
	// GenerateSpeech synthesizes audio for the given request. It blocks
	// until the provider answers or ctx is done, and returns raw PCM on
	// success or an error classified through this package's sentinels
	// on failure.
	GenerateSpeech(ctx context.Context, req SpeechRequest) (*SpeechResult, error)
}
