package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/mutarjim/translation-service/internal/config"
	"github.com/mutarjim/translation-service/internal/engine"
	"github.com/mutarjim/translation-service/internal/lang"
)

// stubEngine translates by prefixing, making output assertions trivial.
type stubEngine struct{}

func (stubEngine) Translate(_ context.Context, text string, _ lang.Direction) (string, error) {
	return "T:" + text, nil
}

func (stubEngine) Name() string { return "stub" }

// withStubEngine swaps the engine builder for a stub and isolates the test
// from any config file in the real home directory.
func withStubEngine(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	orig := buildEngineFn
	buildEngineFn = func(config.Config) engine.Engine { return stubEngine{} }
	t.Cleanup(func() { buildEngineFn = orig })
}

// execute runs the command tree with args and captures its output.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := Root()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}
