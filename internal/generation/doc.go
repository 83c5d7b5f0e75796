// Package generation defines the interface for turning extracted content
// into study materials. It serves as a boundary between the application
// core and external AI/LLM services.
package generation
