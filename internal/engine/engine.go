// Package engine provides implementations of the opaque translation
// capability: text in, translated text out, per direction.
//
// Concrete engines (AWS Lambda-hosted seq2seq models, OpenAI-compatible chat
// models) all fail with the sentinel errors in this package so callers can
// classify capability failures with errors.Is. Decorators (Retrying, Breaker,
// Lazy) wrap any Engine with transport-level resilience without changing the
// interface.
package engine

import (
	"context"

	"github.com/mutarjim/translation-service/internal/lang"
)

// Engine is the translation capability. Implementations are stateless with
// respect to calls and safe for concurrent use from multiple requests.
type Engine interface {
	// Translate converts text from the direction's source language to its
	// target language.
	Translate(ctx context.Context, text string, direction lang.Direction) (string, error)

	// Name identifies the engine for logs and health reporting.
	Name() string
}
