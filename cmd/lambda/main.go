// Package main is the serverless entrypoint for the translation service.
// It exposes the synchronous text operation over AWS Lambda using the same
// wire contract as POST /translate/text.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/mutarjim/translation-service/internal/config"
	"github.com/mutarjim/translation-service/internal/domain"
	"github.com/mutarjim/translation-service/internal/engine"
	"github.com/mutarjim/translation-service/internal/handler"
	"github.com/mutarjim/translation-service/internal/pipeline"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load("", nil)
	if err != nil {
		logger.Error("configuration failed", "error", err)
		os.Exit(1)
	}

	// The pipeline is shared across invocations; the engine behind it is
	// built once, on the first translation.
	pipe := pipeline.New(engine.FromConfig(cfg),
		pipeline.WithMaxTokens(cfg.ChunkTokens),
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithLogger(logger),
	)

	lambda.Start(newEventHandler(handler.New(pipe)))
}

// newEventHandler routes raw events: warmup pings are answered before any
// request parsing, everything else is a translation request.
func newEventHandler(h *handler.Handler) func(context.Context, json.RawMessage) (any, error) {
	return func(ctx context.Context, event json.RawMessage) (any, error) {
		if warmup, ok := ParseWarmupEvent(event); ok {
			return HandleWarmup(ctx, warmup)
		}

		var req domain.TranslateRequest
		if err := json.Unmarshal(event, &req); err != nil {
			return &handler.Response{Error: "Invalid request. 'text' key is required."}, nil
		}
		return h.Handle(ctx, req)
	}
}
