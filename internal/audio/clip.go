package audio

import (
	"sync"
	"time"
)

// Clip is an owned, releasable handle over an encoded WAV buffer. It is
// the in-process analogue of a browser object URL: the presentation
// layer can stream or download it, and whoever owns the enclosing job
// must call Release exactly once when the clip is no longer needed so
// the buffer does not outlive its job.
type Clip struct {
	mu       sync.Mutex
	data     []byte
	duration time.Duration
	released bool
}

// NewClip creates a clip owning the given encoded WAV bytes. The slice
// must not be mutated by the caller afterwards.
func NewClip(wav []byte, duration time.Duration) *Clip {
	return &Clip{
		data:     wav,
		duration: duration,
	}
}

// EncodeClip encodes raw PCM through EncodeWAV and wraps the result in
// a Clip, computing the playback duration from the format parameters.
func EncodeClip(pcm []byte, sampleRate, channels int) (*Clip, error) {
	wav, err := EncodeWAV(pcm, sampleRate, channels)
	if err != nil {
		return nil, err
	}
	return NewClip(wav, PCMDuration(len(pcm), sampleRate, channels)), nil
}

// Bytes returns the encoded WAV data, or ErrClipReleased once the clip
// has been released.
func (c *Clip) Bytes() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return nil, ErrClipReleased
	}
	return c.data, nil
}

// Len returns the size of the encoded data in bytes, zero once released.
func (c *Clip) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Duration returns the playback duration of the clip.
func (c *Clip) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// MIMEType returns the media type of the clip contents.
func (c *Clip) MIMEType() string {
	return MIMETypeWAV
}

// Released reports whether Release has been called.
func (c *Clip) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

// Release frees the underlying buffer. It is idempotent: the first call
// releases and returns true, later calls are no-ops returning false.
func (c *Clip) Release() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return false
	}
	c.released = true
	c.data = nil
	return true
}
