package segment

import (
	"strings"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{
			name:     "empty string",
			text:     "",
			expected: 0,
		},
		{
			name:     "short text",
			text:     "Hi",
			expected: 1, // 2/4 = 0, min 1
		},
		{
			name:     "typical sentence",
			text:     "iPhone 12 Pro in good condition",
			expected: 7, // 31/4 = 7
		},
		{
			name:     "arabic counts bytes not runes",
			text:     "مرحبا",
			expected: 2, // 10 bytes / 4
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EstimateTokens(tt.text)
			if result != tt.expected {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, result, tt.expected)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name           string
		lines          []string
		maxTokens      int
		expectedChunks int
		expectedLines  []int // Line of each chunk, in order
	}{
		{
			name:           "nil input",
			lines:          nil,
			maxTokens:      100,
			expectedChunks: 0,
		},
		{
			name:           "empty input",
			lines:          []string{},
			maxTokens:      100,
			expectedChunks: 0,
		},
		{
			name:           "single short line",
			lines:          []string{"Hello world."},
			maxTokens:      100,
			expectedChunks: 1,
			expectedLines:  []int{0},
		},
		{
			name:           "one chunk per line",
			lines:          []string{"Hello world.", "This is a new line."},
			maxTokens:      100,
			expectedChunks: 2,
			expectedLines:  []int{0, 1},
		},
		{
			name:           "blank lines yield no chunks",
			lines:          []string{"Hello world.", "", "Goodbye."},
			maxTokens:      100,
			expectedChunks: 2,
			expectedLines:  []int{0, 2},
		},
		{
			name:           "whitespace-only lines yield no chunks",
			lines:          []string{"first", "   \t", "last"},
			maxTokens:      100,
			expectedChunks: 2,
			expectedLines:  []int{0, 2},
		},
		{
			name:           "long line splits at sentence boundaries",
			lines:          []string{"First sentence. Second one. Third bit."},
			maxTokens:      5,
			expectedChunks: 2,
			expectedLines:  []int{0, 0},
		},
		{
			name:           "oversized word gets its own chunk",
			lines:          []string{strings.Repeat("x", 200)},
			maxTokens:      20,
			expectedChunks: 1,
			expectedLines:  []int{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Split(tt.lines, tt.maxTokens)

			if len(chunks) != tt.expectedChunks {
				t.Fatalf("Split() returned %d chunks, want %d", len(chunks), tt.expectedChunks)
			}

			for i, c := range chunks {
				if c.Index != i {
					t.Errorf("chunk[%d].Index = %d, want %d", i, c.Index, i)
				}
				if tt.expectedLines != nil && c.Line != tt.expectedLines[i] {
					t.Errorf("chunk[%d].Line = %d, want %d", i, c.Line, tt.expectedLines[i])
				}
				if c.Text == "" {
					t.Errorf("chunk[%d] has empty text", i)
				}
			}
		})
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		maxTokens int
	}{
		{
			name:      "two short lines",
			lines:     []string{"Hello world.", "This is a new line."},
			maxTokens: 100,
		},
		{
			name:      "blank and whitespace lines",
			lines:     []string{"first", "", "  ", "last line here."},
			maxTokens: 100,
		},
		{
			name:      "sentence splitting preserves every byte",
			lines:     []string{"First sentence. Second one. Third bit."},
			maxTokens: 5,
		},
		{
			name:      "arabic sentences with arabic punctuation",
			lines:     []string{"مرحبا بالعالم. كيف حالك؟ أنا بخير والحمد لله."},
			maxTokens: 4,
		},
		{
			name:      "forced word splitting preserves every byte",
			lines:     []string{strings.Repeat("lorem ipsum dolor ", 50)},
			maxTokens: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Split(tt.lines, tt.maxTokens)

			// Rebuild each line from its chunks (empty-string join)
			rebuilt := make(map[int]string)
			for _, c := range chunks {
				rebuilt[c.Line] += c.Text
			}

			for i, line := range tt.lines {
				if strings.TrimSpace(line) == "" {
					if _, ok := rebuilt[i]; ok {
						t.Errorf("blank line %d produced chunks", i)
					}
					continue
				}
				if rebuilt[i] != line {
					t.Errorf("line %d round trip = %q, want %q", i, rebuilt[i], line)
				}
			}
		})
	}
}

func TestSplit_RunOnLineStaysWithinBudget(t *testing.T) {
	// A ~5000-character run-on line with no sentence punctuation must still
	// be bounded via forced word splitting.
	line := strings.Repeat("word ", 1000)
	chunks := Split([]string{line}, DefaultMaxTokens)

	if len(chunks) < 2 {
		t.Fatalf("expected the run-on line to be split, got %d chunks", len(chunks))
	}

	var rebuilt string
	for i, c := range chunks {
		if c.Line != 0 {
			t.Errorf("chunk[%d].Line = %d, want 0", i, c.Line)
		}
		if c.Tokens > DefaultMaxTokens {
			t.Errorf("chunk[%d] has %d tokens, budget is %d", i, c.Tokens, DefaultMaxTokens)
		}
		rebuilt += c.Text
	}

	if rebuilt != line {
		t.Errorf("round trip lost bytes: got %d, want %d", len(rebuilt), len(line))
	}
}

func TestSplit_BudgetRespectedExceptOversizedWords(t *testing.T) {
	lines := []string{
		"A normal line.",
		strings.Repeat("verylongword", 30), // single 360-byte word, no boundaries
		strings.Repeat("many words here. ", 40),
	}
	maxTokens := 15

	for _, c := range Split(lines, maxTokens) {
		if c.Tokens <= maxTokens {
			continue
		}
		// Oversized chunks are only legal for single words
		if strings.Contains(c.Text, " ") {
			t.Errorf("oversized chunk %d contains a word boundary: %q", c.Index, c.Text)
		}
	}
}

func TestSplit_PreservesOrder(t *testing.T) {
	lines := []string{"first", "second", "third", "fourth", "fifth"}
	chunks := Split(lines, 100)

	for i, c := range chunks {
		if c.Text != lines[i] {
			t.Errorf("order not preserved: got %q at position %d, want %q", c.Text, i, lines[i])
		}
	}
}

func TestSplit_DefaultMaxTokens(t *testing.T) {
	chunks := Split([]string{"test"}, 0) // Should use default

	if len(chunks) != 1 {
		t.Errorf("Split with 0 maxTokens should use default, got %d chunks", len(chunks))
	}
}

func TestHalve(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		expectedLeft  string
		expectedRight string
		expectedOK    bool
	}{
		{
			name:          "two words",
			text:          "hello world",
			expectedLeft:  "hello",
			expectedRight: "world",
			expectedOK:    true,
		},
		{
			name:          "splits near the midpoint",
			text:          "a b c d",
			expectedLeft:  "a b",
			expectedRight: "c d",
			expectedOK:    true,
		},
		{
			name:       "single word cannot be halved",
			text:       "supercalifragilistic",
			expectedOK: false,
		},
		{
			name:       "whitespace only",
			text:       "   ",
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right, ok := Halve(tt.text)

			if ok != tt.expectedOK {
				t.Fatalf("Halve(%q) ok = %v, want %v", tt.text, ok, tt.expectedOK)
			}
			if !ok {
				return
			}
			if left != tt.expectedLeft || right != tt.expectedRight {
				t.Errorf("Halve(%q) = (%q, %q), want (%q, %q)",
					tt.text, left, right, tt.expectedLeft, tt.expectedRight)
			}
		})
	}
}
