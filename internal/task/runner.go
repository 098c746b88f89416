package task

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mutarjim/translation-service/internal/domain"
	"github.com/mutarjim/translation-service/internal/lang"
)

// Runner defaults.
const (
	DefaultRunnerWorkers = 2
	DefaultOutputDir     = "translated_files"
	defaultQueueSize     = 128
)

// Translator is the part of the pipeline the runner needs.
type Translator interface {
	TranslateLines(ctx context.Context, lines []string, direction lang.Direction) (domain.TranslationResult, error)
}

// Extractor pulls text lines out of an uploaded PDF.
type Extractor interface {
	ExtractLines(ctx context.Context, path string) ([]string, error)
}

// Job is one submitted PDF translation.
type Job struct {
	TaskID    string
	PDFPath   string
	Filename  string
	Direction string
}

// Runner executes submitted PDF jobs on a fixed worker pool, tracking each
// job's lifecycle in the store. Submit returns as soon as the pending task
// is recorded; workers do the extraction and translation in the background.
type Runner struct {
	store      Store
	translator Translator
	extractor  Extractor
	outputDir  string
	workers    int
	queue      chan Job
	logger     *slog.Logger
	wg         sync.WaitGroup
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerWorkers sets the worker pool size.
func WithRunnerWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithOutputDir sets the directory for translated output files.
func WithOutputDir(dir string) RunnerOption {
	return func(r *Runner) {
		if dir != "" {
			r.outputDir = dir
		}
	}
}

// WithQueueSize sets the pending job buffer.
func WithQueueSize(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.queue = make(chan Job, n)
		}
	}
}

// WithRunnerLogger sets the logger.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner. Start must be called before submitted jobs
// make progress.
func NewRunner(store Store, translator Translator, extractor Extractor, opts ...RunnerOption) *Runner {
	r := &Runner{
		store:      store,
		translator: translator,
		extractor:  extractor,
		outputDir:  DefaultOutputDir,
		workers:    DefaultRunnerWorkers,
		queue:      make(chan Job, defaultQueueSize),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the worker pool. ctx bounds the work of every job the
// runner executes.
func (r *Runner) Start(ctx context.Context) {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for job := range r.queue {
				r.process(ctx, job)
			}
		}()
	}
	r.logger.Info("task runner started", "workers", r.workers, "output_dir", r.outputDir)
}

// Stop closes the queue and waits for queued and in-flight jobs to drain.
func (r *Runner) Stop() {
	close(r.queue)
	r.wg.Wait()
	r.logger.Info("task runner stopped")
}

// Submit records a pending task for an uploaded PDF and enqueues it. The
// runner owns pdfPath from here on and removes it once the job finishes.
func (r *Runner) Submit(ctx context.Context, pdfPath, filename, direction string) (*Task, error) {
	t := &Task{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		Filename:  filename,
		Direction: direction,
	}
	if err := r.store.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("recording task: %w", err)
	}

	job := Job{TaskID: t.ID, PDFPath: pdfPath, Filename: filename, Direction: direction}
	select {
	case r.queue <- job:
	case <-ctx.Done():
		r.fail(ctx, t.ID, "submission cancelled")
		return nil, ctx.Err()
	}

	return t, nil
}

// process runs one job to a terminal status. The uploaded temp file is
// always removed.
func (r *Runner) process(ctx context.Context, job Job) {
	defer func() {
		if err := os.Remove(job.PDFPath); err != nil && !os.IsNotExist(err) {
			r.logger.Warn("removing uploaded file", "path", job.PDFPath, "error", err)
		}
	}()

	logger := r.logger.With("task", job.TaskID, "filename", job.Filename)

	if !r.transition(ctx, job.TaskID, StatusRunning, nil, "") {
		return
	}
	logger.Info("translation job started")

	lines, err := r.extractor.ExtractLines(ctx, job.PDFPath)
	if err != nil {
		logger.Warn("extraction failed", "error", err)
		r.fail(ctx, job.TaskID, err.Error())
		return
	}

	direction, err := lang.Resolve(strings.Join(lines, "\n"), job.Direction)
	if err != nil {
		logger.Warn("direction rejected", "error", err)
		r.fail(ctx, job.TaskID, err.Error())
		return
	}

	result, err := r.translator.TranslateLines(ctx, lines, direction)
	if err != nil {
		logger.Warn("translation failed", "error", err)
		r.fail(ctx, job.TaskID, err.Error())
		return
	}

	outputPath, err := r.writeOutput(job.Filename, result.TranslatedLines)
	if err != nil {
		logger.Warn("writing output failed", "error", err)
		r.fail(ctx, job.TaskID, err.Error())
		return
	}
	result.OutputFile = outputPath

	if r.transition(ctx, job.TaskID, StatusCompleted, &result, "") {
		logger.Info("translation job completed", "output", outputPath, "direction", direction)
	}
}

// writeOutput saves the translated lines as <stem>_translated.txt under the
// output directory and returns the written path.
func (r *Runner) writeOutput(filename string, lines []string) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	outputPath := filepath.Join(r.outputDir, stem+"_translated.txt")

	content := strings.Join(lines, "\n")
	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing output file: %w", err)
	}
	return outputPath, nil
}

// transition moves a task to a new status, attaching a result or an error.
// The status write must land even when the job's ctx was cancelled, so the
// store sees an uncancellable context. Store failures are logged, not
// propagated; the job itself has nowhere to report them.
func (r *Runner) transition(ctx context.Context, id string, status Status, result *domain.TranslationResult, reason string) bool {
	ctx = context.WithoutCancel(ctx)

	t, err := r.store.Get(ctx, id)
	if err != nil {
		r.logger.Error("loading task", "task", id, "error", err)
		return false
	}
	t.Status = status
	t.Result = result
	t.Error = reason
	if err := r.store.Update(ctx, t); err != nil {
		r.logger.Error("updating task", "task", id, "status", status, "error", err)
		return false
	}
	return true
}

// fail marks a task failed with a reason.
func (r *Runner) fail(ctx context.Context, id, reason string) {
	r.transition(ctx, id, StatusFailed, nil, reason)
}
