// Package cli implements the mutarjim command tree.
package cli

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mutarjim/translation-service/internal/lang"
)

// ErrInputNotFound indicates the translate input path does not exist.
var ErrInputNotFound = errors.New("input file not found")

// Root builds the root command with serve, translate, and version attached.
func Root() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "mutarjim",
		Short: "English-Arabic translation service",
		Long: `mutarjim translates text and PDF documents between English and Arabic.

Documents are split into sentence-aligned chunks, translated through a
configurable engine (AWS Lambda seq2seq models or an OpenAI-compatible
API), and reassembled line by line. Run it as an HTTP service with
"mutarjim serve" or translate a single input with "mutarjim translate".`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: mutarjim.yaml in . or $HOME/.config/mutarjim)")
	cmd.PersistentFlags().Bool("verbose", false, "enable debug logging")

	cmd.AddCommand(serveCmd(&cfgFile))
	cmd.AddCommand(translateCmd(&cfgFile))
	cmd.AddCommand(versionCmd())
	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// usageErrorPatterns match cobra's flag and argument parsing errors, which
// carry no typed sentinel.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand",
	"unknown command",
	"flag needs an argument",
	"invalid argument",
	"required flag",
	"accepts ",
	"unknown engine",
	"unknown store",
}

// IsUsageError reports whether err is the caller's mistake (bad flags,
// arguments, or selections) rather than a runtime failure.
func IsUsageError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, lang.ErrUnsupportedDirection) || errors.Is(err, ErrInputNotFound) {
		return true
	}
	msg := err.Error()
	for _, pattern := range usageErrorPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
