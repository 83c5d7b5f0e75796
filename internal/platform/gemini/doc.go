// Package gemini implements the generation.Generator interface using
// Google's Gemini API. It owns prompt construction, retry behavior for
// transient API failures, and parsing of the model's JSON output into
// domain study materials.
package gemini
