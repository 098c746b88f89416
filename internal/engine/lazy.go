package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/mutarjim/translation-service/internal/lang"
)

// Lazy defers engine construction to first use and guarantees it happens at
// most once per process, even under concurrent first calls. The built engine
// is read-only after init; a failed build is cached and returned to every
// caller.
type Lazy struct {
	name  string
	build func(ctx context.Context) (Engine, error)

	once sync.Once
	eng  Engine
	err  error
}

var _ Engine = (*Lazy)(nil)

// NewLazy creates a lazily-built engine. name is used for logs before the
// engine exists.
func NewLazy(name string, build func(ctx context.Context) (Engine, error)) *Lazy {
	return &Lazy{name: name, build: build}
}

func (l *Lazy) init(ctx context.Context) (Engine, error) {
	l.once.Do(func() {
		l.eng, l.err = l.build(ctx)
	})
	return l.eng, l.err
}

// Translate builds the engine on first call and delegates.
func (l *Lazy) Translate(ctx context.Context, text string, direction lang.Direction) (string, error) {
	eng, err := l.init(ctx)
	if err != nil {
		return "", fmt.Errorf("initialize %s engine: %w", l.name, err)
	}
	return eng.Translate(ctx, text, direction)
}

// Name identifies the engine without forcing construction.
func (l *Lazy) Name() string {
	return l.name
}
