// Package audio turns raw PCM samples into playable WAV containers and
// provides the releasable Clip handle that carries generated audio
// through the rest of the system.
package audio
