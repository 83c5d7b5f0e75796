// Package api contains the HTTP handlers for the study optimizer service:
// content extraction, study material generation, and deck download.
package api
