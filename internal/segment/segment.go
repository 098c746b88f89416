// Package segment splits documents into ordered, budget-bounded chunks for
// translation.
package segment

import (
	"strings"
	"unicode"

	"github.com/mutarjim/translation-service/internal/domain"
)

// DefaultMaxTokens is the default maximum tokens per chunk. It matches the
// context window of the seq2seq models behind the translation capability.
const DefaultMaxTokens = 512

// sentenceEnders are the runes that may close a sentence. Includes the
// Arabic question mark, the Arabic full stop, and ellipsis.
var sentenceEnders = map[rune]bool{
	'.': true,
	'!': true,
	'?': true,
	'؟': true,
	'۔': true,
	'…': true,
}

// EstimateTokens estimates the token count for a text.
// Uses a simple heuristic: ~4 bytes per token. Arabic UTF-8 runs about two
// bytes per character, so the estimate is conservative there.
func EstimateTokens(text string) int {
	return estimateLen(len(text))
}

func estimateLen(n int) int {
	if n == 0 {
		return 0
	}
	tokens := n / 4
	if tokens == 0 {
		tokens = 1
	}
	return tokens
}

// Split converts a document's lines into an ordered chunk sequence.
// Chunks never span line boundaries: a line within budget yields one chunk,
// a longer line is packed greedily at sentence boundaries, and a single
// sentence over budget is split at word boundaries. A lone word longer than
// maxTokens becomes its own oversized chunk rather than failing.
//
// Lines with no non-whitespace content yield no chunks. For every other
// line, concatenating its chunks' text in index order reproduces the line
// byte-for-byte.
func Split(lines []string, maxTokens int) []domain.Chunk {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	var chunks []domain.Chunk
	for lineNo, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, piece := range splitLine(line, maxTokens) {
			chunks = append(chunks, domain.Chunk{
				Index:  len(chunks),
				Line:   lineNo,
				Text:   piece,
				Tokens: EstimateTokens(piece),
			})
		}
	}
	return chunks
}

// splitLine bounds a single line. The fast path keeps the line whole.
func splitLine(line string, maxTokens int) []string {
	if EstimateTokens(line) <= maxTokens {
		return []string{line}
	}

	return pack(splitSentences(line), maxTokens, func(sentence string) []string {
		return splitWords(sentence, maxTokens)
	})
}

// splitWords bounds a single over-budget sentence at word boundaries.
// An individual word that alone exceeds the budget is kept whole.
func splitWords(sentence string, maxTokens int) []string {
	return pack(splitAfterSpaces(sentence), maxTokens, func(word string) []string {
		return []string{word}
	})
}

// pack greedily accumulates units into pieces whose estimated token count
// stays within maxTokens. Units carry their own whitespace, so pieces are
// joined with the empty string and concatenating the output reproduces the
// concatenation of the input. A unit that alone exceeds the budget is handed
// to oversize after the current piece is flushed.
func pack(units []string, maxTokens int, oversize func(string) []string) []string {
	var pieces []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			pieces = append(pieces, current.String())
			current.Reset()
		}
	}

	for _, unit := range units {
		// A single unit exceeding maxTokens gets special handling
		if estimateLen(len(unit)) > maxTokens {
			flush()
			pieces = append(pieces, oversize(unit)...)
			continue
		}

		// If adding this unit would cross the budget, start a new piece
		if current.Len() > 0 && estimateLen(current.Len()+len(unit)) > maxTokens {
			flush()
		}

		current.WriteString(unit)
	}

	flush()
	return pieces
}

// splitSentences cuts a line after each run of sentence-ending punctuation
// and its trailing whitespace. Every byte of the input is preserved:
// concatenating the result reproduces the line exactly.
func splitSentences(line string) []string {
	var parts []string
	var current strings.Builder
	ending := false

	for _, r := range line {
		if sentenceEnders[r] {
			current.WriteRune(r)
			ending = true
			continue
		}
		if ending {
			if unicode.IsSpace(r) {
				current.WriteRune(r)
				continue
			}
			parts = append(parts, current.String())
			current.Reset()
			ending = false
		}
		current.WriteRune(r)
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// splitAfterSpaces cuts a text after each maximal run of whitespace, keeping
// the whitespace attached to the preceding word so concatenation reproduces
// the input exactly.
func splitAfterSpaces(text string) []string {
	var parts []string
	var current strings.Builder
	inSpace := false

	for _, r := range text {
		if unicode.IsSpace(r) {
			current.WriteRune(r)
			inSpace = true
			continue
		}
		if inSpace {
			parts = append(parts, current.String())
			current.Reset()
			inSpace = false
		}
		current.WriteRune(r)
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// Halve splits a chunk's text at the word boundary nearest its midpoint,
// for the driver's reduced-size retry. Returns ok=false when the text has
// no usable boundary (a single word cannot be halved).
func Halve(text string) (left, right string, ok bool) {
	mid := len(text) / 2
	best := -1
	for i, r := range text {
		if !unicode.IsSpace(r) {
			continue
		}
		if best == -1 || abs(i-mid) < abs(best-mid) {
			best = i
		}
	}
	if best <= 0 {
		return "", "", false
	}

	left = strings.TrimSpace(text[:best])
	right = strings.TrimSpace(text[best:])
	if left == "" || right == "" {
		return "", "", false
	}
	return left, right, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
