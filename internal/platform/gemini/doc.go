// Package gemini implements the generation.SpeechGenerator interface
// using Google's Gemini speech models through the genai SDK.
package gemini
