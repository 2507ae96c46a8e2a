package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoiceCatalog(t *testing.T) {
	assert.Len(t, PrebuiltVoices, 30)

	seen := make(map[string]bool, len(PrebuiltVoices))
	for _, v := range PrebuiltVoices {
		assert.NotEmpty(t, v.ID)
		assert.NotEmpty(t, v.Name)
		assert.False(t, seen[v.ID], "duplicate voice %s", v.ID)
		seen[v.ID] = true
	}
}

func TestIsKnownVoice(t *testing.T) {
	assert.True(t, IsKnownVoice("Kore"))
	assert.True(t, IsKnownVoice("Zephyr"))
	assert.False(t, IsKnownVoice("kore")) // catalog IDs are case sensitive
	assert.False(t, IsKnownVoice(""))
	assert.False(t, IsKnownVoice("NotAVoice"))
}

func TestIsKnownModel(t *testing.T) {
	assert.True(t, IsKnownModel("gemini-2.5-flash-preview-tts"))
	assert.True(t, IsKnownModel("gemini-2.5-pro-preview-tts"))
	assert.False(t, IsKnownModel("gemini-2.0-flash"))
	assert.False(t, IsKnownModel(""))
}
