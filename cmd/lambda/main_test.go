package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mutarjim/translation-service/internal/domain"
	"github.com/mutarjim/translation-service/internal/handler"
	"github.com/mutarjim/translation-service/internal/lang"
)

type fakeTranslator struct {
	calls int
}

func (f *fakeTranslator) Translate(_ context.Context, text string, _ lang.Direction) (domain.TranslationResult, error) {
	f.calls++
	return domain.TranslationResult{
		OriginalLines:     []string{text},
		TranslatedLines:   []string{"T:" + text},
		WordCountOriginal: 1,
	}, nil
}

func TestParseWarmupEvent(t *testing.T) {
	tests := []struct {
		name            string
		event           string
		want            bool
		wantConcurrency int
	}{
		{"warmup", `{"source":"warmup"}`, true, 0},
		{"warmup with concurrency", `{"source":"warmup","concurrency":3}`, true, 3},
		{"translation request", `{"text":"hi"}`, false, 0},
		{"other source", `{"source":"cloudwatch"}`, false, 0},
		{"invalid json", `not json`, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := ParseWarmupEvent(json.RawMessage(tt.event))
			if ok != tt.want {
				t.Fatalf("ok = %v, want %v", ok, tt.want)
			}
			if w.Concurrency != tt.wantConcurrency {
				t.Errorf("Concurrency = %d, want %d", w.Concurrency, tt.wantConcurrency)
			}
		})
	}
}

func TestEventHandler_WarmupSkipsTranslation(t *testing.T) {
	translator := &fakeTranslator{}
	handle := newEventHandler(handler.New(translator))

	resp, err := handle(context.Background(), json.RawMessage(`{"source":"warmup"}`))
	if err != nil {
		t.Fatalf("handle() error: %v", err)
	}
	warm, ok := resp.(WarmupResponse)
	if !ok {
		t.Fatalf("response type %T", resp)
	}
	if warm.Status != "warm" || warm.InstancesWarmed != 1 {
		t.Errorf("response = %+v", warm)
	}
	if translator.calls != 0 {
		t.Errorf("translator called %d times during warmup", translator.calls)
	}
}

func TestEventHandler_Translation(t *testing.T) {
	translator := &fakeTranslator{}
	handle := newEventHandler(handler.New(translator))

	resp, err := handle(context.Background(), json.RawMessage(`{"text":"Hello world."}`))
	if err != nil {
		t.Fatalf("handle() error: %v", err)
	}
	out, ok := resp.(*handler.Response)
	if !ok {
		t.Fatalf("response type %T", resp)
	}
	if out.Error != "" {
		t.Fatalf("unexpected error %q", out.Error)
	}
	if got := out.TranslatedLines[0]; got != "T:Hello world." {
		t.Errorf("TranslatedLines[0] = %q", got)
	}
	if translator.calls != 1 {
		t.Errorf("translator called %d times", translator.calls)
	}
}

func TestEventHandler_MalformedEvent(t *testing.T) {
	translator := &fakeTranslator{}
	handle := newEventHandler(handler.New(translator))

	resp, err := handle(context.Background(), json.RawMessage(`{"text":42}`))
	if err != nil {
		t.Fatalf("handle() error: %v", err)
	}
	out, ok := resp.(*handler.Response)
	if !ok {
		t.Fatalf("response type %T", resp)
	}
	if out.Error != "Invalid request. 'text' key is required." {
		t.Errorf("Error = %q", out.Error)
	}
	if translator.calls != 0 {
		t.Errorf("translator called %d times", translator.calls)
	}
}
