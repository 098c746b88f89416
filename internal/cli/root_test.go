package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutarjim/translation-service/internal/lang"
)

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, stdout, "mutarjim dev")
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := execute(t, "frobnicate")

	require.Error(t, err)
	assert.True(t, IsUsageError(err))
}

func TestIsUsageError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unsupported direction", fmt.Errorf("direction %q: %w", "fr2de", lang.ErrUnsupportedDirection), true},
		{"input not found", fmt.Errorf("%w: nope.txt", ErrInputNotFound), true},
		{"unknown flag", errors.New("unknown flag: --bogus"), true},
		{"wrong arg count", errors.New("accepts 1 arg(s), received 0"), true},
		{"unknown engine", errors.New(`unknown engine "bing" (use "lambda" or "openai")`), true},
		{"runtime failure", errors.New("dial tcp 127.0.0.1:9: connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUsageError(tt.err))
		})
	}
}
