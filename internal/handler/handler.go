// Package handler executes translation requests for the serverless
// entrypoint.
package handler

import (
	"context"

	"github.com/mutarjim/translation-service/internal/domain"
	"github.com/mutarjim/translation-service/internal/lang"
)

// Translator runs one text through the translation pipeline.
type Translator interface {
	Translate(ctx context.Context, text string, direction lang.Direction) (domain.TranslationResult, error)
}

// Response mirrors the HTTP wire contract: the translation result on
// success, an error message otherwise.
type Response struct {
	*domain.TranslationResult
	Error string `json:"error,omitempty"`
}

// Handler serves translation requests with a shared pipeline.
type Handler struct {
	translator Translator
}

// New creates a Handler around translator.
func New(translator Translator) *Handler {
	return &Handler{translator: translator}
}

// Handle processes one invocation. Domain failures are reported in-band via
// Response.Error; the returned error is reserved for transport problems.
func (h *Handler) Handle(ctx context.Context, req domain.TranslateRequest) (*Response, error) {
	if req.Text == nil {
		return &Response{Error: "Invalid request. 'text' key is required."}, nil
	}

	direction, err := lang.Resolve(*req.Text, req.Direction)
	if err != nil {
		return &Response{Error: err.Error()}, nil
	}

	result, err := h.translator.Translate(ctx, *req.Text, direction)
	if err != nil {
		return &Response{Error: err.Error()}, nil
	}
	return &Response{TranslationResult: &result}, nil
}
