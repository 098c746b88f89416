package engine

import (
	"context"

	"github.com/mutarjim/translation-service/internal/lang"
)

// stubEngine is a scriptable Engine for decorator tests.
type stubEngine struct {
	name  string
	fn    func(ctx context.Context, text string, direction lang.Direction) (string, error)
	calls int
}

func (s *stubEngine) Translate(ctx context.Context, text string, direction lang.Direction) (string, error) {
	s.calls++
	return s.fn(ctx, text, direction)
}

func (s *stubEngine) Name() string {
	if s.name == "" {
		return "stub"
	}
	return s.name
}
