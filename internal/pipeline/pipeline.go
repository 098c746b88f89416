// Package pipeline composes segmentation, translation, and reassembly behind
// a single entrypoint shared by the HTTP server, the CLI, and the Lambda
// handler.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mutarjim/translation-service/internal/domain"
	"github.com/mutarjim/translation-service/internal/driver"
	"github.com/mutarjim/translation-service/internal/engine"
	"github.com/mutarjim/translation-service/internal/lang"
	"github.com/mutarjim/translation-service/internal/reassemble"
	"github.com/mutarjim/translation-service/internal/segment"
)

// Pipeline runs documents through segmentation, the translation driver, and
// reassembly. Safe for concurrent use.
type Pipeline struct {
	engine    engine.Engine
	driver    *driver.Driver
	maxTokens int
	workers   int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMaxTokens sets the segmentation budget.
func WithMaxTokens(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// WithWorkers sets the translation pool size.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Pipeline around an engine.
func New(eng engine.Engine, opts ...Option) *Pipeline {
	p := &Pipeline{
		engine:    eng,
		maxTokens: segment.DefaultMaxTokens,
		workers:   driver.DefaultWorkers,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.driver = driver.New(eng, driver.WithWorkers(p.workers), driver.WithLogger(p.logger))
	return p
}

// Translate splits raw text into lines and translates it.
func (p *Pipeline) Translate(ctx context.Context, text string, direction lang.Direction) (domain.TranslationResult, error) {
	return p.TranslateDocument(ctx, domain.NewDocument(text), direction)
}

// TranslateLines translates an already line-split input, as produced by PDF
// extraction.
func (p *Pipeline) TranslateLines(ctx context.Context, lines []string, direction lang.Direction) (domain.TranslationResult, error) {
	return p.TranslateDocument(ctx, domain.Document{Lines: lines}, direction)
}

// TranslateDocument runs one document through the pipeline. A document with
// nothing translatable returns an empty result without touching the engine.
func (p *Pipeline) TranslateDocument(ctx context.Context, doc domain.Document, direction lang.Direction) (domain.TranslationResult, error) {
	if !direction.Valid() {
		return domain.TranslationResult{}, fmt.Errorf("direction %q: %w", direction, lang.ErrUnsupportedDirection)
	}

	chunks := segment.Split(doc.Lines, p.maxTokens)
	if len(chunks) == 0 {
		return reassemble.Assemble(doc, nil), nil
	}

	start := time.Now()
	translated, err := p.driver.TranslateChunks(ctx, chunks, direction)
	if err != nil {
		return domain.TranslationResult{}, fmt.Errorf("translate document: %w", err)
	}

	result := reassemble.Assemble(doc, translated)
	p.logger.Info("document translated",
		"engine", p.engine.Name(),
		"direction", direction,
		"lines", len(doc.Lines),
		"chunks", len(chunks),
		"words_in", result.WordCountOriginal,
		"words_out", result.WordCountTranslated,
		"duration", time.Since(start))

	return result, nil
}
