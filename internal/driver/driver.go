// Package driver fans chunk translations out to a bounded worker pool while
// keeping results in input order.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mutarjim/translation-service/internal/domain"
	"github.com/mutarjim/translation-service/internal/engine"
	"github.com/mutarjim/translation-service/internal/lang"
	"github.com/mutarjim/translation-service/internal/segment"
)

// DefaultWorkers bounds concurrent engine calls when no pool size is given.
const DefaultWorkers = 4

// Driver translates ordered chunks through an engine. Chunks are processed
// in parallel up to the worker limit; completion order never affects output
// order.
type Driver struct {
	engine  engine.Engine
	workers int
	logger  *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a Driver around an engine.
func New(eng engine.Engine, opts ...Option) *Driver {
	d := &Driver{
		engine:  eng,
		workers: DefaultWorkers,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// TranslateChunks translates every chunk and returns results in input order,
// with each output carrying its input's Index and Line. If any chunk fails
// terminally the whole run fails; no partial result is returned.
func (d *Driver) TranslateChunks(ctx context.Context, chunks []domain.Chunk, direction lang.Direction) ([]domain.TranslatedChunk, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	results := make([]domain.TranslatedChunk, len(chunks))
	// Semaphore channel for concurrency control.
	sem := make(chan struct{}, d.workers)

	g, ctx := errgroup.WithContext(ctx)

	for i, chunk := range chunks {
		g.Go(func() error {
			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			text, err := d.translateChunk(ctx, chunk, direction)
			if err != nil {
				return fmt.Errorf("chunk %d (line %d): %w", chunk.Index, chunk.Line, err)
			}
			results[i] = domain.TranslatedChunk{
				Index: chunk.Index,
				Line:  chunk.Line,
				Text:  text,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// translateChunk translates one chunk, retrying once at reduced size when
// the first attempt fails: the text splits at the word boundary nearest its
// midpoint and the halves are translated in order and joined with a single
// space. An unhalvable chunk, or a failed retry, is a terminal failure.
func (d *Driver) translateChunk(ctx context.Context, chunk domain.Chunk, direction lang.Direction) (string, error) {
	text, err := d.engine.Translate(ctx, chunk.Text, direction)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", err
	}

	left, right, ok := segment.Halve(chunk.Text)
	if !ok {
		return "", err
	}

	d.logger.Warn("retrying chunk at half size",
		"chunk", chunk.Index, "line", chunk.Line, "error", err)

	leftOut, err := d.engine.Translate(ctx, left, direction)
	if err != nil {
		return "", fmt.Errorf("halved retry: %w", err)
	}
	rightOut, err := d.engine.Translate(ctx, right, direction)
	if err != nil {
		return "", fmt.Errorf("halved retry: %w", err)
	}

	joined := strings.TrimSpace(leftOut) + " " + strings.TrimSpace(rightOut)
	return strings.TrimSpace(joined), nil
}
