// Package api implements the HTTP handlers of the note cleaning service
// and the mapping from internal errors to sanitized HTTP responses.
package api
