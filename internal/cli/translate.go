package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mutarjim/translation-service/internal/config"
	"github.com/mutarjim/translation-service/internal/domain"
	"github.com/mutarjim/translation-service/internal/lang"
	"github.com/mutarjim/translation-service/internal/pdf"
	"github.com/mutarjim/translation-service/internal/pipeline"
)

func translateCmd(cfgFile *string) *cobra.Command {
	var (
		literal   bool
		direction string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "translate <input>",
		Short: "Translate a text file, a PDF, or a literal string",
		Long: `Translate a document between English and Arabic.

The input may be a UTF-8 text file, a PDF (requires pdftotext), or, with
--text, a literal string. The direction is detected from the input script
unless set explicitly with --direction.`,
		Example: `  mutarjim translate notes.txt
  mutarjim translate report.pdf -o report_ar.txt
  mutarjim translate --text "Hello world." -d en2ar
  mutarjim translate --engine openai --text "Good morning."`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runTranslate(cmd, cfg, args[0], literal, direction, output)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&literal, "text", false, "treat the argument as literal text, not a path")
	flags.StringVarP(&direction, "direction", "d", "", "translation direction: en2ar or ar2en (default: detect)")
	flags.StringVarP(&output, "output", "o", "", "output file path (default: <input>_translated.txt)")
	addEngineFlags(flags)

	return cmd
}

func runTranslate(cmd *cobra.Command, cfg config.Config, input string, literal bool, direction, output string) error {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()
	logger := newLogger(stderr, cfg.Verbose)

	// 1. An explicit direction must parse before any file work.
	if strings.TrimSpace(direction) != "" {
		if _, err := lang.ParseDirection(direction); err != nil {
			return err
		}
	}

	// 2. Collect input lines.
	var lines []string
	switch {
	case literal:
		lines = domain.SplitLines(input)
	case strings.EqualFold(filepath.Ext(input), ".pdf"):
		if _, err := os.Stat(input); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", ErrInputNotFound, input)
			}
			return fmt.Errorf("reading %s: %w", input, err)
		}
		if err := pdf.CheckAvailable(); err != nil {
			return fmt.Errorf("%w\n%s", err, pdf.InstallInstructions())
		}
		extracted, err := pdf.New().ExtractLines(ctx, input)
		if err != nil {
			return err
		}
		lines = extracted
	default:
		data, err := os.ReadFile(input)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", ErrInputNotFound, input)
			}
			return fmt.Errorf("reading %s: %w", input, err)
		}
		lines = domain.SplitLines(string(data))
	}

	// 3. Resolve the direction, detecting it from the text when unset.
	dir, err := lang.Resolve(strings.Join(lines, "\n"), direction)
	if err != nil {
		return err
	}

	// 4. Translate.
	pipe := pipeline.New(buildEngineFn(cfg),
		pipeline.WithMaxTokens(cfg.ChunkTokens),
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithLogger(logger),
	)
	result, err := pipe.TranslateLines(ctx, lines, dir)
	if err != nil {
		return err
	}
	translated := strings.Join(result.TranslatedLines, "\n")

	// 5. Write the result: stdout for literal text, a sibling file otherwise.
	if literal {
		fmt.Fprintln(cmd.OutOrStdout(), translated)
		return nil
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "_translated.txt"
	}
	if err := os.WriteFile(output, []byte(translated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(stderr, "Done: %s (%s, %d words in, %d words out)\n",
		output, dir, result.WordCountOriginal, result.WordCountTranslated)
	return nil
}
