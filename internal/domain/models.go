// Package domain contains the core domain types for the translation service.
package domain

import "strings"

// Document is the full input to one translation request, split into lines.
// Documents are ephemeral: created per request, discarded once a
// TranslationResult has been produced.
type Document struct {
	Lines []string
}

// NewDocument splits raw text into a Document.
func NewDocument(text string) Document {
	return Document{Lines: SplitLines(text)}
}

// SplitLines splits text on newlines. A trailing newline does not produce a
// final empty line, and empty input yields no lines. Windows line endings
// are tolerated.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Chunk is an ordered unit of translatable text produced by the segmenter.
// Index is the global sequence position, Line the originating line. Chunks
// never span line boundaries.
type Chunk struct {
	Index  int
	Line   int
	Text   string
	Tokens int
}

// TranslatedChunk mirrors Chunk after translation. The index set of a
// translated sequence always equals the index set of its input sequence.
type TranslatedChunk struct {
	Index int
	Line  int
	Text  string
}

// TranslationResult is the final output of the pipeline, shaped for the wire.
// OutputFile is only set for jobs that persist their translation to disk.
type TranslationResult struct {
	OriginalLines       []string `json:"original_lines"`
	TranslatedLines     []string `json:"translated_lines"`
	WordCountOriginal   int      `json:"word_count_original"`
	WordCountTranslated int      `json:"word_count_translated"`
	OutputFile          string   `json:"output_file,omitempty"`
}

// TranslateRequest is the body of a synchronous text translation request,
// shared by the HTTP endpoint and the serverless entrypoint. Text is a
// pointer so a present-but-empty "text" key can be told apart from a
// missing one. Direction is optional; when absent the service auto-detects
// it.
type TranslateRequest struct {
	Text      *string `json:"text"`
	Direction string  `json:"direction,omitempty"`
}

// TaskAccepted is the immediate response to an asynchronous PDF translation
// request.
type TaskAccepted struct {
	Message   string `json:"message"`
	TaskID    string `json:"task_id"`
	StatusURL string `json:"status_url"`
}

// TaskStatus reports the state of an asynchronous translation job. Result is
// present once the task completed, Error once it failed.
type TaskStatus struct {
	TaskID string             `json:"task_id"`
	Status string             `json:"status"`
	Result *TranslationResult `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}
