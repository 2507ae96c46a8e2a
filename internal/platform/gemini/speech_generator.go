package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/ariatts/aria-api/internal/audio"
	"github.com/ariatts/aria-api/internal/generation"
)

// SpeechGenerator implements generation.SpeechGenerator using the
// Gemini API. The provider returns audio as base64-embedded inline data
// in a structured response; the SDK undoes the base64 layer, so this
// adapter hands raw PCM bytes to the caller, which is the core's real
// input format.
//
// A client is constructed per call because the credential is the
// user's own API key, not a process-wide secret.
type SpeechGenerator struct {
	logger *slog.Logger

	// newClient is swappable in tests.
	newClient func(ctx context.Context, apiKey string) (*genai.Client, error)
}

// Ensure SpeechGenerator implements the generation interface.
var _ generation.SpeechGenerator = (*SpeechGenerator)(nil)

// NewSpeechGenerator creates a Gemini-backed speech generator.
func NewSpeechGenerator(logger *slog.Logger) (*SpeechGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &SpeechGenerator{
		logger: logger,
		newClient: func(ctx context.Context, apiKey string) (*genai.Client, error) {
			return genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  apiKey,
				Backend: genai.BackendGeminiAPI,
			})
		},
	}, nil
}

// GenerateSpeech synthesizes audio for the given request. No retries:
// every provider failure is terminal for this attempt and is reported
// back with the provider's message intact so the caller can surface it.
func (g *SpeechGenerator) GenerateSpeech(
	ctx context.Context,
	req generation.SpeechRequest,
) (*generation.SpeechResult, error) {
	if req.Text == "" {
		return nil, generation.ErrEmptyText
	}
	if req.APIKey == "" {
		return nil, generation.ErrMissingAPIKey
	}
	if req.ModelID == "" || req.VoiceID == "" {
		return nil, fmt.Errorf("%w: model and voice are required", generation.ErrInvalidConfig)
	}

	client, err := g.newClient(ctx, req.APIKey)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create client: %v", generation.ErrGenerationFailed, err)
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: req.VoiceID,
				},
			},
		},
	}

	g.logger.DebugContext(ctx, "calling speech provider",
		"model", req.ModelID,
		"voice", req.VoiceID,
		"text_length", len(req.Text))

	resp, err := client.Models.GenerateContent(ctx, req.ModelID, genai.Text(req.Text), config)
	if err != nil {
		g.logger.WarnContext(ctx, "speech provider call failed",
			"model", req.ModelID,
			"error", err)
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	pcm, err := extractInlineAudio(resp)
	if err != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "speech provider call succeeded",
		"model", req.ModelID,
		"pcm_bytes", len(pcm))

	// Gemini speech models emit 16-bit mono PCM at 24 kHz.
	return &generation.SpeechResult{
		PCM:        pcm,
		SampleRate: audio.DefaultSampleRate,
		Channels:   audio.DefaultChannels,
	}, nil
}

// extractInlineAudio walks the response for the first inline audio blob.
func extractInlineAudio(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}

	content := resp.Candidates[0].Content
	if content == nil {
		return nil, fmt.Errorf("%w: empty content", generation.ErrInvalidResponse)
	}

	for _, part := range content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}

	return nil, fmt.Errorf("%w: no inline audio data", generation.ErrInvalidResponse)
}
