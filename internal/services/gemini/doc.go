// Package gemini wraps the Gemini generateContent API used by discovery,
// info lookup, popularity scoring, logo fallback, and record enhancement.
//
// The client is deliberately thin: it issues one generation request and
// returns the raw text. Response parsing, schema validation, and retry
// policy belong to the callers, so each stage can apply its own failure
// semantics. Rate-limit responses are tagged with services.ErrRateLimited so
// the enhancement stage's retry wrapper can recognize them.
package gemini
