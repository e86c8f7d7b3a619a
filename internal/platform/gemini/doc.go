// Package gemini implements the normalize.Normalizer interface using
// Google's Gemini API.
package gemini
