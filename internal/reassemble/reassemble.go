// Package reassemble joins translated chunks back into a line-faithful
// document and computes word counts.
package reassemble

import (
	"strings"

	"github.com/mutarjim/translation-service/internal/domain"
)

// WordCount reports the total number of whitespace-delimited tokens across
// lines.
func WordCount(lines []string) int {
	total := 0
	for _, line := range lines {
		total += len(strings.Fields(line))
	}
	return total
}

// Assemble builds the TranslationResult for a document from its ordered
// translated chunks. Original lines are carried verbatim. Each translated
// line is the trimmed texts of that line's chunks joined with a single
// space; a line with no chunks (blank in the source) stays empty.
func Assemble(doc domain.Document, chunks []domain.TranslatedChunk) domain.TranslationResult {
	perLine := make([][]string, len(doc.Lines))
	for _, chunk := range chunks {
		perLine[chunk.Line] = append(perLine[chunk.Line], strings.TrimSpace(chunk.Text))
	}

	original := make([]string, len(doc.Lines))
	copy(original, doc.Lines)

	translated := make([]string, len(doc.Lines))
	for i, parts := range perLine {
		translated[i] = strings.Join(parts, " ")
	}

	return domain.TranslationResult{
		OriginalLines:       original,
		TranslatedLines:     translated,
		WordCountOriginal:   WordCount(original),
		WordCountTranslated: WordCount(translated),
	}
}
