package engine

import (
	"context"
	"fmt"

	"github.com/mutarjim/translation-service/internal/config"
	"github.com/mutarjim/translation-service/internal/lang"
)

// FromConfig assembles the configured engine behind retry, circuit-breaker,
// and lazy-init wrappers. The inner engine is built on first use, so callers
// can start (and report healthy) before any credentials are exercised.
func FromConfig(cfg config.Config) Engine {
	return NewLazy(cfg.Engine, func(ctx context.Context) (Engine, error) {
		var inner Engine
		switch cfg.Engine {
		case config.EngineOpenAI:
			if cfg.OpenAIAPIKey == "" {
				return nil, fmt.Errorf("engine %q needs an API key (set %s)", cfg.Engine, config.EnvOpenAIKey)
			}
			var opts []OpenAIOption
			if cfg.OpenAIModel != "" {
				opts = append(opts, WithModel(cfg.OpenAIModel))
			}
			if cfg.OpenAIBaseURL != "" {
				opts = append(opts, WithBaseURL(cfg.OpenAIBaseURL))
			}
			inner = NewOpenAI(cfg.OpenAIAPIKey, opts...)
		default:
			opts := []LambdaOption{WithEnvironment(cfg.Environment)}
			if names := lambdaFunctionNames(cfg); len(names) > 0 {
				opts = append(opts, WithFunctionNames(names))
			}
			lambdaEngine, err := NewLambda(ctx, opts...)
			if err != nil {
				return nil, err
			}
			inner = lambdaEngine
		}

		retrying := NewRetrying(inner, DefaultRetryConfig())
		return NewBreaker(retrying, BreakerConfig{
			ConsecutiveFailures: uint32(max(0, cfg.BreakerThreshold)),
		}), nil
	})
}

func lambdaFunctionNames(cfg config.Config) map[lang.Direction]string {
	names := make(map[lang.Direction]string)
	if cfg.LambdaEn2Ar != "" {
		names[lang.EnglishToArabic] = cfg.LambdaEn2Ar
	}
	if cfg.LambdaAr2En != "" {
		names[lang.ArabicToEnglish] = cfg.LambdaAr2En
	}
	return names
}
