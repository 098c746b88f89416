package handler

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mutarjim/translation-service/internal/domain"
	"github.com/mutarjim/translation-service/internal/lang"
)

type fakeTranslator struct {
	calls     int
	text      string
	direction lang.Direction
	result    domain.TranslationResult
	err       error
}

func (f *fakeTranslator) Translate(_ context.Context, text string, direction lang.Direction) (domain.TranslationResult, error) {
	f.calls++
	f.text = text
	f.direction = direction
	return f.result, f.err
}

func strPtr(s string) *string { return &s }

func TestHandle_MissingText(t *testing.T) {
	translator := &fakeTranslator{}
	h := New(translator)

	resp, err := h.Handle(context.Background(), domain.TranslateRequest{})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if resp.Error != "Invalid request. 'text' key is required." {
		t.Errorf("Error = %q", resp.Error)
	}
	if resp.TranslationResult != nil {
		t.Error("expected no result")
	}
	if translator.calls != 0 {
		t.Errorf("translator called %d times", translator.calls)
	}
}

func TestHandle_InvalidDirection(t *testing.T) {
	translator := &fakeTranslator{}
	h := New(translator)

	resp, err := h.Handle(context.Background(), domain.TranslateRequest{Text: strPtr("Hello"), Direction: "fr2de"})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if !strings.Contains(resp.Error, "fr2de") {
		t.Errorf("Error = %q, want the rejected direction named", resp.Error)
	}
	if translator.calls != 0 {
		t.Errorf("translator called %d times", translator.calls)
	}
}

func TestHandle_TranslatorFailure(t *testing.T) {
	translator := &fakeTranslator{err: errors.New("model load failed")}
	h := New(translator)

	resp, err := h.Handle(context.Background(), domain.TranslateRequest{Text: strPtr("Hello")})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if resp.Error != "model load failed" {
		t.Errorf("Error = %q", resp.Error)
	}
	if resp.TranslationResult != nil {
		t.Error("expected no result")
	}
}

func TestHandle_Success(t *testing.T) {
	translator := &fakeTranslator{result: domain.TranslationResult{
		OriginalLines:       []string{"Hello world."},
		TranslatedLines:     []string{"مرحبا بالعالم."},
		WordCountOriginal:   2,
		WordCountTranslated: 2,
	}}
	h := New(translator)

	resp, err := h.Handle(context.Background(), domain.TranslateRequest{Text: strPtr("Hello world.")})
	if err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if resp.Error != "" {
		t.Fatalf("unexpected error %q", resp.Error)
	}
	if resp.TranslationResult == nil {
		t.Fatal("expected a result")
	}
	if got := resp.TranslatedLines[0]; got != "مرحبا بالعالم." {
		t.Errorf("TranslatedLines[0] = %q", got)
	}
	if translator.text != "Hello world." {
		t.Errorf("translator received %q", translator.text)
	}
	if translator.direction != lang.EnglishToArabic {
		t.Errorf("direction = %q, want auto-detected en2ar", translator.direction)
	}
}

func TestHandle_ExplicitDirection(t *testing.T) {
	translator := &fakeTranslator{}
	h := New(translator)

	if _, err := h.Handle(context.Background(), domain.TranslateRequest{Text: strPtr("Hello"), Direction: "ar2en"}); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if translator.direction != lang.ArabicToEnglish {
		t.Errorf("direction = %q, want ar2en", translator.direction)
	}
}

// The response must flatten the result on success and carry only the error
// key on failure, matching the HTTP endpoints byte for byte.
func TestResponse_WireShape(t *testing.T) {
	success := Response{TranslationResult: &domain.TranslationResult{
		OriginalLines:       []string{"Hi"},
		TranslatedLines:     []string{"مرحبا"},
		WordCountOriginal:   1,
		WordCountTranslated: 1,
	}}
	data, err := json.Marshal(success)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"original_lines"`, `"translated_lines"`, `"word_count_original"`, `"word_count_translated"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("success response missing %s: %s", key, data)
		}
	}
	if strings.Contains(string(data), `"error"`) {
		t.Errorf("success response carries an error key: %s", data)
	}

	failure := Response{Error: "boom"}
	data, err = json.Marshal(failure)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"error":"boom"}` {
		t.Errorf("failure response = %s", data)
	}
}
