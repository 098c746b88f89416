package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mutarjim/translation-service/internal/lang"
)

func TestLazy_BuildsOnceUnderConcurrency(t *testing.T) {
	var builds atomic.Int32
	lazy := NewLazy("lambda", func(ctx context.Context) (Engine, error) {
		builds.Add(1)
		return &stubEngine{fn: func(ctx context.Context, text string, direction lang.Direction) (string, error) {
			return "translated", nil
		}}, nil
	})

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = lazy.Translate(context.Background(), "hello", lang.EnglishToArabic)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("call %d failed: %v", i, err)
		}
	}
	if got := builds.Load(); got != 1 {
		t.Errorf("expected exactly 1 build, got %d", got)
	}
}

func TestLazy_CachesBuildError(t *testing.T) {
	var builds atomic.Int32
	buildErr := errors.New("no credentials")
	lazy := NewLazy("lambda", func(ctx context.Context) (Engine, error) {
		builds.Add(1)
		return nil, buildErr
	})

	for i := 0; i < 3; i++ {
		_, err := lazy.Translate(context.Background(), "hello", lang.EnglishToArabic)
		if !errors.Is(err, buildErr) {
			t.Errorf("call %d: expected build error, got %v", i+1, err)
		}
	}
	if got := builds.Load(); got != 1 {
		t.Errorf("expected a single build attempt, got %d", got)
	}
}

func TestLazy_NameDoesNotBuild(t *testing.T) {
	var builds atomic.Int32
	lazy := NewLazy("openai", func(ctx context.Context) (Engine, error) {
		builds.Add(1)
		return nil, errors.New("should not run")
	})

	if lazy.Name() != "openai" {
		t.Errorf("expected name %q, got %q", "openai", lazy.Name())
	}
	if got := builds.Load(); got != 0 {
		t.Errorf("Name forced a build: %d", got)
	}
}
