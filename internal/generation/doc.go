// Package generation provides the interface and error taxonomy for the
// external speech-generation capability. It abstracts the details of the
// provider integration (Gemini speech models), allowing the queue
// processor to turn text into raw PCM audio without coupling to a
// specific external service.
package generation
