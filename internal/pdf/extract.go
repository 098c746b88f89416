// Package pdf extracts text lines from PDF files by shelling out to
// pdftotext (poppler-utils).
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mutarjim/translation-service/internal/domain"
)

// pdftotextBinary is the external tool used for extraction.
const pdftotextBinary = "pdftotext"

// ErrToolNotFound indicates pdftotext is not installed.
var ErrToolNotFound = errors.New("pdftotext not found in PATH")

// ErrNoText indicates the PDF yielded no extractable text.
var ErrNoText = errors.New("could not extract text from PDF")

// CommandRunner abstracts command execution so tests can stub the binary.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, InstallInstructions())
	}
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor extracts text from PDF files.
type Extractor struct {
	runner CommandRunner
}

// New creates an Extractor using the system pdftotext.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates an Extractor with a custom command runner (for
// testing).
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath(pdftotextBinary); err != nil {
		return fmt.Errorf("%w: %s", ErrToolNotFound, InstallInstructions())
	}
	return nil
}

// InstallInstructions tells the user how to get pdftotext.
func InstallInstructions() string {
	return "install poppler-utils (macOS: brew install poppler; Debian/Ubuntu: apt install poppler-utils)"
}

// ExtractLines extracts the text of a PDF as ordered lines, preserving the
// page layout. A PDF with no extractable text returns ErrNoText.
func (e *Extractor) ExtractLines(ctx context.Context, path string) ([]string, error) {
	output, err := e.runner.Run(ctx, pdftotextBinary, "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("pdftotext failed: %s: %w", strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	text := string(output)
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	return domain.SplitLines(text), nil
}
