package transformer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"amdify/pkg/util"
)

// WriteMode controls where converted output goes.
type WriteMode int

const (
	// WriteStdout prints each converted file to standard output.
	WriteStdout WriteMode = iota
	// WriteInPlace overwrites the source file with the converted output.
	WriteInPlace
	// WriteOutDir mirrors the source tree under an output directory.
	WriteOutDir
)

// RunnerOptions configures a batch conversion run.
type RunnerOptions struct {
	Mode    WriteMode
	OutDir  string
	Root    string
	Workers int
	Logger  *slog.Logger
}

// RunStats summarizes a batch run.
type RunStats struct {
	Converted int64
	Failed    int64
}

// Runner converts a set of files in parallel and writes the results out.
type Runner struct {
	transformer *Transformer
	opts        RunnerOptions
	logger      *slog.Logger

	converted atomic.Int64
	failed    atomic.Int64
}

func NewRunner(t *Transformer, opts RunnerOptions) *Runner {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Workers = util.PoolSizeOrOverride(opts.Workers)
	if opts.Mode == WriteStdout {
		// Stdout output must arrive in input order.
		opts.Workers = 1
	}
	return &Runner{transformer: t, opts: opts, logger: opts.Logger}
}

// Run converts files with a pool of workers. It keeps going past individual
// file failures; the error only reports that some files failed.
func (r *Runner) Run(ctx context.Context, files []string) (RunStats, error) {
	jobs := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < r.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if err := r.convertOne(path); err != nil {
					r.failed.Add(1)
					r.logger.Error("conversion failed", "path", path, "error", err)
					continue
				}
				r.converted.Add(1)
			}
		}()
	}

	for _, path := range files {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return r.stats(), ctx.Err()
		case jobs <- path:
		}
	}
	close(jobs)
	wg.Wait()

	stats := r.stats()
	if stats.Failed > 0 {
		return stats, fmt.Errorf("%d of %d files failed", stats.Failed, stats.Failed+stats.Converted)
	}
	return stats, nil
}

// ConvertOne converts a single file and writes the result per the runner's
// write mode. Used by watch mode for incremental reconversion.
func (r *Runner) ConvertOne(path string) error {
	return r.convertOne(path)
}

func (r *Runner) convertOne(path string) error {
	out, err := r.transformer.TransformFile(path)
	if err != nil {
		return err
	}
	return r.write(path, out)
}

func (r *Runner) write(path, out string) error {
	switch r.opts.Mode {
	case WriteInPlace:
		// Unmap before overwriting; truncating a mapped file risks a
		// fault on the next mapped read.
		r.transformer.Invalidate(path)
		return writeFile(path, out)
	case WriteOutDir:
		rel, err := filepath.Rel(r.opts.Root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		dest := filepath.Join(r.opts.OutDir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		return writeFile(dest, out)
	default:
		_, err := fmt.Fprint(os.Stdout, out)
		return err
	}
}

func (r *Runner) stats() RunStats {
	return RunStats{Converted: r.converted.Load(), Failed: r.failed.Load()}
}

func writeFile(path, out string) error {
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
